// The riskmock binary simulates the external risk central service. Scores
// are deterministic per document so repeated evaluations of the same member
// are reproducible. Its banding table intentionally differs from the
// server's default bands; the engine classifies scores itself.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	scoreMin = 300
	scoreMax = 950
)

// Simulator banding: looser LOW band, tighter HIGH band than production.
const (
	mockLowMin    = 700
	mockMediumMin = 550
)

type evaluateRequest struct {
	Document        string          `json:"document"`
	RequestedAmount decimal.Decimal `json:"requestedAmount"`
}

type evaluateResponse struct {
	Score     int    `json:"score"`
	RiskLevel string `json:"riskLevel"`
	Detail    string `json:"detail"`
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	addr := os.Getenv("RISK_MOCK_ADDR")
	if addr == "" {
		addr = ":8081"
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/risk/evaluate", func(w http.ResponseWriter, r *http.Request) {
		var request evaluateRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Document == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		score := scoreFor(request.Document)
		level := riskLevelFor(score)

		logger.Info("risk evaluation",
			zap.String("document", request.Document),
			zap.String("amount", request.RequestedAmount.String()),
			zap.Int("score", score),
			zap.String("risk_level", level),
		)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(evaluateResponse{
			Score:     score,
			RiskLevel: level,
			Detail:    detailFor(score, level),
		})
	}).Methods("POST")

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	logger.Info("risk central mock listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, router); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
}

// scoreFor hashes the document into the 300-950 range. Same document,
// same score.
func scoreFor(document string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(document))
	return scoreMin + int(h.Sum32()%(scoreMax-scoreMin+1))
}

func riskLevelFor(score int) string {
	switch {
	case score >= mockLowMin:
		return "LOW"
	case score >= mockMediumMin:
		return "MEDIUM"
	default:
		return "HIGH"
	}
}

func detailFor(score int, level string) string {
	switch level {
	case "LOW":
		return fmt.Sprintf("Excellent credit history. Score of %d indicates low risk profile.", score)
	case "MEDIUM":
		return fmt.Sprintf("Moderate credit history. Score of %d requires standard evaluation.", score)
	default:
		return fmt.Sprintf("Credit concerns detected. Score of %d indicates elevated risk.", score)
	}
}
