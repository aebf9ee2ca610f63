package tracking

import (
	"errors"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// 1x1 transparent GIF, served for every pixel request.
var transparentGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00,
	0x80, 0x00, 0x00, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x21,
	0xf9, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00, 0x2c, 0x00, 0x00,
	0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x44,
	0x01, 0x00, 0x3b,
}

// Handler serves the open tracking pixel.
type Handler struct {
	svc *Service
}

// NewHandler creates a tracking HTTP handler.
func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts the tracking endpoints on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/track/open/{token}", h.handleOpen)
}

// handleOpen records the open and serves the pixel. The pixel goes out
// regardless of the recording outcome so broken tokens and storage
// failures stay invisible to the mail client.
func (h *Handler) handleOpen(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if token != "" {
		err := h.svc.RecordOpen(r.Context(), token, realIP(r), r.UserAgent())
		if err != nil && !errors.Is(err, ErrUnknownToken) {
			log.Printf("[tracking.Handler] record open for token %s: %v", token, err)
		}
	}

	servePixel(w)
}

func servePixel(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.Write(transparentGIF)
}

// realIP prefers proxy headers over the socket address.
func realIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		return rip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
