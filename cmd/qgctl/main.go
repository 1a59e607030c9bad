// qgctl is the operator CLI: local share handling plus thin HTTP calls
// against a running server.
package main

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quorumgate/quorumgate/internal/domain/shamir"
)

var serverAddr string

var rootCmd = &cobra.Command{
	Use:   "qgctl",
	Short: "Quorumgate CLI",
	Long: `Quorumgate splits master secrets into threshold shares and gates
sensitive operations behind multi-party votes. qgctl handles shares locally
and talks to a running server for rounds and participants.`,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", "http://127.0.0.1:8080", "server base URL")
	rootCmd.AddCommand(secretCmd())
	rootCmd.AddCommand(keygenCmd())
	rootCmd.AddCommand(requestCmd())
	rootCmd.AddCommand(participantCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func secretCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "secret", Short: "Split and reconstruct secrets locally"}
	cmd.AddCommand(secretSplitCmd())
	cmd.AddCommand(secretReconstructCmd())
	return cmd
}

func secretSplitCmd() *cobra.Command {
	var threshold, total int
	var file string
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a secret into threshold shares",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := readSecret(file)
			if err != nil {
				return err
			}
			shares, err := shamir.Split(secret, threshold, total)
			if err != nil {
				return err
			}
			out := make([]map[string]any, len(shares))
			for i, sh := range shares {
				out[i] = map[string]any{"x": sh.X, "y": sh.Y.Text(16)}
			}
			return printJSON(map[string]any{"threshold": threshold, "shares": out})
		},
	}
	cmd.Flags().IntVar(&threshold, "threshold", 3, "shares required to reconstruct")
	cmd.Flags().IntVar(&total, "shares", 5, "total shares to create")
	cmd.Flags().StringVar(&file, "file", "", "read secret bytes from file (default: stdin)")
	return cmd
}

func secretReconstructCmd() *cobra.Command {
	var raw []string
	cmd := &cobra.Command{
		Use:   "reconstruct",
		Short: "Recover a secret from shares",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(raw) == 0 {
				return fmt.Errorf("at least one --share required")
			}
			shares := make([]shamir.Share, 0, len(raw))
			for _, s := range raw {
				sh, err := parseShare(s)
				if err != nil {
					return err
				}
				shares = append(shares, sh)
			}
			secret, err := shamir.Reconstruct(shares, len(shares))
			if err != nil {
				return err
			}
			fmt.Println(base64.StdEncoding.EncodeToString(secret))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&raw, "share", []string{}, "share as x:hexY (repeatable)")
	return cmd
}

func keygenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an audit signing key",
		RunE: func(cmd *cobra.Command, args []string) error {
			key := make([]byte, 32)
			if _, err := rand.Read(key); err != nil {
				return err
			}
			fmt.Println(hex.EncodeToString(key))
			return nil
		},
	}
	return cmd
}

func requestCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "request", Short: "Manage voting rounds"}
	cmd.AddCommand(requestSubmitCmd())
	cmd.AddCommand(requestResultCmd())
	cmd.AddCommand(requestVoteCmd())
	cmd.AddCommand(requestSolicitCmd())
	return cmd
}

func requestSubmitCmd() *cobra.Command {
	var subject, operation, sensitivity, originator string
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Open a voting round",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postAndPrint("/v1/requests", map[string]any{
				"subject":     subject,
				"operation":   operation,
				"sensitivity": strings.ToUpper(sensitivity),
				"originator":  originator,
			})
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "subject the operation targets")
	cmd.Flags().StringVar(&operation, "operation", "", "operation name")
	cmd.Flags().StringVar(&sensitivity, "sensitivity", "MEDIUM", "LOW, MEDIUM, HIGH or CRITICAL")
	cmd.Flags().StringVar(&originator, "originator", "", "originator participant id")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("operation")
	return cmd
}

func requestResultCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "result <requestId>",
		Short: "Fetch a round's result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint("/v1/requests/" + args[0] + "/result")
		},
	}
	return cmd
}

func requestVoteCmd() *cobra.Command {
	var participantID, value string
	cmd := &cobra.Command{
		Use:   "vote <requestId>",
		Short: "Cast a vote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postAndPrint("/v1/requests/"+args[0]+"/votes", map[string]any{
				"participantId": participantID,
				"value":         strings.ToUpper(value),
			})
		},
	}
	cmd.Flags().StringVar(&participantID, "participant", "", "voting participant id")
	cmd.Flags().StringVar(&value, "value", "", "APPROVE, DENY or ABSTAIN")
	_ = cmd.MarkFlagRequired("participant")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func requestSolicitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solicit <requestId>",
		Short: "Ask every active participant's policy to vote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postAndPrint("/v1/requests/"+args[0]+"/solicit", nil)
		},
	}
	return cmd
}

func participantCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "participant", Short: "Manage participants"}
	cmd.AddCommand(participantRegisterCmd())
	cmd.AddCommand(participantListCmd())
	return cmd
}

func participantRegisterCmd() *cobra.Command {
	var id, role, locality, policy, expression string
	var trust float64
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a participant",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postAndPrint("/v1/participants", map[string]any{
				"id":         id,
				"role":       strings.ToUpper(role),
				"trust":      trust,
				"locality":   locality,
				"policy":     policy,
				"policyExpr": expression,
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "participant id")
	cmd.Flags().StringVar(&role, "role", "PHONE", "PHONE, TOKEN, CLOUD, FRIEND or SERVER")
	cmd.Flags().Float64Var(&trust, "trust", 0.5, "initial trust weight in [0,1]")
	cmd.Flags().StringVar(&locality, "locality", "", "locality tag")
	cmd.Flags().StringVar(&policy, "policy", "", "voting policy name")
	cmd.Flags().StringVar(&expression, "expression", "", "boolean expression for the rule policy")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func participantListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List participants",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint("/v1/participants")
		},
	}
	return cmd
}

// --- helpers ---

func readSecret(file string) ([]byte, error) {
	if file != "" {
		return os.ReadFile(file)
	}
	return io.ReadAll(os.Stdin)
}

func parseShare(s string) (shamir.Share, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return shamir.Share{}, fmt.Errorf("share must be x:hexY, got %q", s)
	}
	var x int
	if _, err := fmt.Sscanf(parts[0], "%d", &x); err != nil {
		return shamir.Share{}, fmt.Errorf("share x must be an integer: %w", err)
	}
	y, ok := new(big.Int).SetString(parts[1], 16)
	if !ok {
		return shamir.Share{}, fmt.Errorf("share y must be hex")
	}
	return shamir.Share{X: x, Y: y}, nil
}

func postAndPrint(path string, body map[string]any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := http.Post(serverAddr+path, "application/json", bytes.NewReader(raw))
	if err != nil {
		return err
	}
	return printResponse(resp)
}

func getAndPrint(path string) error {
	resp, err := http.Get(serverAddr + path)
	if err != nil {
		return err
	}
	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	defer resp.Body.Close()
	var v any
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return err
	}
	if err := printJSON(v); err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
