// Command test is the e2e smoke harness: it serves handler.Server at
// /translate, and at /run translates a request and also runs the rendered SQL
// against a real PostgreSQL database (via PQ_TEST_DSN) to confirm the
// translator's output is not just well-formed text but an executable query. It is the
// translator's own demo application, rewired from a full GraphQL execution
// server onto the translate/handler packages this repository actually ships.
package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	_ "github.com/lib/pq"

	"github.com/lateralquery/gqlpg/handler"
	"github.com/lateralquery/gqlpg/translate"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	dsn := os.Getenv("PQ_TEST_DSN")
	var db *sql.DB
	if dsn != "" {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Fatal("failed to open database", zap.Error(err))
		}
		defer db.Close()
	} else {
		logger.Warn("PQ_TEST_DSN not set; /run is disabled and answers 503, /translate still works")
	}

	srv := handler.NewWithConfig(handler.Config{
		RequestTimeout: 30 * time.Second,
		Logger:         logger,
	})
	srv.Use(handler.NewOPTIONS())
	srv.Use(handler.NewGET())
	srv.Use(handler.NewPOST())
	srv.Use(handler.NewMultipartForm())

	mux := http.NewServeMux()
	mux.Handle("/translate", corsMiddleware(srv))
	mux.Handle("/run", corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		runHandler(w, r, db, logger)
	})))

	addr := ":8080"
	logger.Info("translator smoke harness listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

type runRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// runHandler is /run: translate the request the same way handler.Server
// would, then actually execute the rendered SQL against PQ_TEST_DSN and
// return the single JSON "data" column's decoded value. This is the
// end-to-end check that a translated query is not merely well-formed SQL
// text but something PostgreSQL accepts and a json_build_object shaped
// result column comes back from.
func runHandler(w http.ResponseWriter, r *http.Request, db *sql.DB, logger *zap.Logger) {
	if db == nil {
		http.Error(w, "PQ_TEST_DSN not configured", http.StatusServiceUnavailable)
		return
	}

	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := translate.Translate(req.Query, req.Variables, req.OperationName)
	if err != nil {
		logger.Info("translation failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var raw []byte
	row := db.QueryRowContext(r.Context(), result.SQL, result.Params...)
	if err := row.Scan(&raw); err != nil {
		logger.Error("query execution failed", zap.String("sql", result.SQL), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(raw)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
