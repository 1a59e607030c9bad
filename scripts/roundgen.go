// roundgen drives smoke traffic against a running server: it registers a
// fleet of participants, opens voting rounds and casts randomized votes.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

type options struct {
	server       string
	participants int
	rounds       int
	approveBias  float64
	sensitivity  string
	operation    string
	seed         int64
}

func main() {
	var opt options
	flag.StringVar(&opt.server, "server", "http://127.0.0.1:8080", "server base URL")
	flag.IntVar(&opt.participants, "participants", 5, "participants to register")
	flag.IntVar(&opt.rounds, "rounds", 10, "rounds to open")
	flag.Float64Var(&opt.approveBias, "approve-bias", 0.6, "probability a vote approves")
	flag.StringVar(&opt.sensitivity, "sensitivity", "MEDIUM", "sensitivity for generated rounds")
	flag.StringVar(&opt.operation, "operation", "release_secret", "operation name for generated rounds")
	flag.Int64Var(&opt.seed, "seed", 0, "random seed; 0 uses current time")
	flag.Parse()

	seed := opt.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	log.Printf("seed=%d server=%s", seed, opt.server)

	ids := make([]string, opt.participants)
	for i := range ids {
		ids[i] = fmt.Sprintf("smoke-%d", i+1)
		body := map[string]any{
			"id":    ids[i],
			"role":  "PHONE",
			"trust": 0.4 + rng.Float64()*0.6,
		}
		if err := post(opt.server+"/v1/participants", body, nil); err != nil {
			log.Printf("register %s: %v", ids[i], err)
		}
	}

	for i := 0; i < opt.rounds; i++ {
		var created struct {
			Request struct {
				ID string `json:"id"`
			} `json:"request"`
		}
		body := map[string]any{
			"subject":     fmt.Sprintf("smoke-subject-%d", i+1),
			"operation":   opt.operation,
			"sensitivity": strings.ToUpper(opt.sensitivity),
		}
		if err := post(opt.server+"/v1/requests", body, &created); err != nil {
			log.Printf("submit round %d: %v", i+1, err)
			continue
		}
		for _, id := range ids {
			value := "DENY"
			if rng.Float64() < opt.approveBias {
				value = "APPROVE"
			}
			vote := map[string]any{"participantId": id, "value": value}
			if err := post(opt.server+"/v1/requests/"+created.Request.ID+"/votes", vote, nil); err != nil {
				// A resolved round rejects the remaining votes; that is the
				// expected end of the loop.
				break
			}
		}
		log.Printf("round %d submitted: %s", i+1, created.Request.ID)
	}
}

func post(url string, body map[string]any, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s returned %s", url, resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
