package handlers

import (
	"io"
	"net/http"

	"dropzero/backend/libs/httpx"
	"dropzero/backend/services/api-gateway/internal/clients"
)

const maxBodyBytes = 1 << 20

// passthroughHeaders are copied from upstream replies.
var passthroughHeaders = []string{"Content-Type", "Content-Disposition", "X-Unattributed-Readings"}

func writeError(w http.ResponseWriter, status int, message string) {
	httpx.WriteError(w, status, message)
}

func writeReply(w http.ResponseWriter, reply *clients.Reply) {
	for _, name := range passthroughHeaders {
		if v := reply.Header.Get(name); v != "" {
			w.Header().Set(name, v)
		}
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(reply.Status)
	if len(reply.Body) > 0 {
		_, _ = w.Write(reply.Body)
	}
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	return io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
}
