package web

import (
	"bytes"
	"image/png"
	"net/http"
	"strconv"
)

// FrameHandler encodes the host's latest frame as PNG.
func FrameHandler(host *FrameHost) http.Handler {
	encoder := &png.Encoder{CompressionLevel: png.BestSpeed}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
			return
		}
		img, _, frames := host.Latest()
		if img == nil {
			writeAPIError(w, http.StatusServiceUnavailable, "no_frame", "no frame rendered yet")
			return
		}

		var buf bytes.Buffer
		if err := encoder.Encode(&buf, img); err != nil {
			writeAPIError(w, http.StatusInternalServerError, "encode_failed", err.Error())
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("X-Frame-Count", strconv.FormatUint(frames, 10))
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(buf.Bytes())
		}
	})
}
