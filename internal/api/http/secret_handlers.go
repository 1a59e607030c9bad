package httpapi

import (
	"encoding/base64"
	"math/big"
	"net/http"

	appSecrets "github.com/quorumgate/quorumgate/internal/application/secrets"
	"github.com/quorumgate/quorumgate/internal/domain/shamir"
)

type shareDTO struct {
	X int    `json:"x"`
	Y string `json:"y"`
}

func toShareDTO(sh shamir.Share) shareDTO {
	return shareDTO{X: sh.X, Y: sh.Y.Text(16)}
}

func fromShareDTO(dto shareDTO) (shamir.Share, error) {
	y, ok := new(big.Int).SetString(dto.Y, 16)
	if !ok {
		return shamir.Share{}, shamir.ErrMalformedShare
	}
	return shamir.Share{X: dto.X, Y: y}, nil
}

type splitSecretBody struct {
	Secret    string `json:"secret"` // base64
	Threshold int    `json:"threshold"`
	Shares    int    `json:"shares"`
}

func (s *Server) splitSecret(w http.ResponseWriter, r *http.Request) {
	var body splitSecretBody
	if err := decodeBody(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	secret, err := base64.StdEncoding.DecodeString(body.Secret)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "secret must be base64")
		return
	}
	shares, err := s.secretsSvc.Split(r.Context(), secret, body.Threshold, body.Shares)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	dtos := make([]shareDTO, len(shares))
	for i, sh := range shares {
		dtos[i] = toShareDTO(sh)
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"fingerprint": appSecrets.Fingerprint(secret),
		"threshold":   body.Threshold,
		"shares":      dtos,
	})
}

type reconstructSecretBody struct {
	Shares []shareDTO `json:"shares"`
}

func (s *Server) reconstructSecret(w http.ResponseWriter, r *http.Request) {
	var body reconstructSecretBody
	if err := decodeBody(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	shares := make([]shamir.Share, len(body.Shares))
	for i, dto := range body.Shares {
		sh, err := fromShareDTO(dto)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		shares[i] = sh
	}
	secret, err := s.secretsSvc.Reconstruct(r.Context(), shares)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"secret":      base64.StdEncoding.EncodeToString(secret),
		"fingerprint": appSecrets.Fingerprint(secret),
	})
}
