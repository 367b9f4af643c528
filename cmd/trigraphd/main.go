// Command trigraphd serves a graphengine.Engine's command surface over
// HTTP, mirroring the teacher's single-endpoint JSON server but
// dispatching through Engine.Command instead of a DSL parser tied to one
// in-request graph payload — graphs here persist in the engine's backend
// across requests instead of being loaded and saved on every call.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	graphengine "github.com/ritamzico/trigraph"
	"github.com/ritamzico/trigraph/internal/resultset"
)

var allowedOrigins = []string{
	"http://localhost:5173",
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func corsMiddleware(next http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if _, ok := allowed[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type resultSetJSON struct {
	Columns []resultset.Column `json:"columns"`
	Rows    [][]any            `json:"rows"`
}

func marshalResult(result any) any {
	rs, ok := result.(*resultset.ResultSet)
	if !ok {
		return result
	}
	out := resultSetJSON{Columns: rs.Columns}
	for _, row := range rs.Rows() {
		jsonRow := make([]any, len(row))
		for i, v := range row {
			jsonRow[i] = v.Any()
		}
		out.Rows = append(out.Rows, jsonRow)
	}
	return out
}

func main() {
	port := flag.Int("port", 8080, "port to listen on")
	dbPath := flag.String("db", "", "path to a badger database directory (empty: in-memory)")
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(flag.CommandLine.Output(), "building logger: %v\n", err)
		return
	}
	defer log.Sync()
	sugar := log.Sugar()

	var eng *graphengine.Engine
	if *dbPath == "" {
		eng, err = graphengine.New()
	} else {
		eng, err = graphengine.Open(*dbPath)
	}
	if err != nil {
		sugar.Fatalw("opening engine", "error", err)
	}
	defer eng.Close()
	eng.SetLogger(sugar)

	mux := http.NewServeMux()

	mux.HandleFunc("/command", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var body struct {
			Command string   `json:"command"`
			Args    []string `json:"args"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if body.Command == "" {
			writeError(w, http.StatusBadRequest, "missing field: command")
			return
		}

		result, err := eng.Command(r.Context(), body.Command, body.Args)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"result": marshalResult(result)})
	})

	addr := fmt.Sprintf(":%d", *port)
	sugar.Infow("trigraphd listening", "addr", addr)
	if err := http.ListenAndServe(addr, corsMiddleware(mux)); err != nil {
		sugar.Errorw("server error", "error", err)
	}
}
