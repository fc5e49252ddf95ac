package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/DiasPedroQA/bookmark-converter/internal/bookmark"
	"github.com/DiasPedroQA/bookmark-converter/internal/convert"
	"github.com/DiasPedroQA/bookmark-converter/internal/httpserver/deps"
	"github.com/DiasPedroQA/bookmark-converter/internal/logger"
	redisstore "github.com/DiasPedroQA/bookmark-converter/internal/store/redis"
	"github.com/DiasPedroQA/bookmark-converter/internal/utils"
)

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
	Path   string `json:"path,omitempty"`
}

// Convert handles POST /api/convert?to=json&from=html. The body is the
// document to convert; the response body is the converted document with
// per-entry warnings carried in the X-Conversion-Warnings header.
func Convert(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		defer utils.Close(d.Logger, r.Body, "request body")

		to, err := convert.ParseFormat(r.URL.Query().Get("to"))
		if err != nil {
			writeError(w, http.StatusBadRequest, errorResponse{
				Error:  "bad_request",
				Detail: "query parameter 'to' must be 'html' or 'json'",
			})
			return
		}

		from, err := sourceFormat(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, errorResponse{
				Error:  "bad_request",
				Detail: err.Error(),
			})
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, d.MaxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, errorResponse{
					Error:  "bad_request",
					Detail: "request body too large",
				})
				return
			}
			writeError(w, http.StatusBadRequest, errorResponse{
				Error:  "bad_request",
				Detail: "failed to read request body",
			})
			return
		}

		// Cache lookup (best effort, miss on any error)
		var digest string
		if d.Store != nil {
			digest = redisstore.Digest(string(from), string(to), body)
			if cached, err := d.Store.GetResult(ctx, digest); err == nil && cached != nil {
				d.Metrics.RecordCacheHit()
				d.Logger.Debug("serving cached conversion",
					logger.String("from", string(from)),
					logger.String("to", string(to)))
				writeResult(w, to, cached.Output, cached.Warnings)
				return
			}
		}

		out, warnings, err := d.Converter.Convert(body, from, to)
		if err != nil {
			kind := bookmark.ErrorKind(err)
			d.Metrics.RecordFailure(kind)
			d.Logger.Info("conversion failed",
				logger.String("from", string(from)),
				logger.String("to", string(to)),
				logger.String("kind", kind),
				logger.Error(err))

			status := http.StatusBadRequest
			if kind == bookmark.KindInternalError {
				status = http.StatusInternalServerError
			}
			resp := errorResponse{Error: kind, Detail: err.Error()}
			var schema *bookmark.SchemaError
			if errors.As(err, &schema) {
				resp.Path = bookmark.PathLocator(schema.Path)
			}
			writeError(w, status, resp)
			return
		}

		d.Metrics.RecordConversion(string(from), string(to), len(warnings))

		if d.Store != nil {
			res := &redisstore.CachedResult{Output: out, Warnings: warnings}
			if err := d.Store.SaveResult(ctx, digest, res, d.CacheTTL); err != nil {
				d.Logger.Warn("failed to cache result", logger.Error(err))
			}
		}

		writeResult(w, to, out, warnings)
	}
}

// sourceFormat resolves the input format from ?from= or, failing that, the
// request Content-Type.
func sourceFormat(r *http.Request) (convert.Format, error) {
	if raw := r.URL.Query().Get("from"); raw != "" {
		f, err := convert.ParseFormat(raw)
		if err != nil {
			return "", errors.New("query parameter 'from' must be 'html' or 'json'")
		}
		return f, nil
	}

	ct := r.Header.Get("Content-Type")
	switch {
	case strings.Contains(ct, "html"):
		return convert.FormatHTML, nil
	case strings.Contains(ct, "json"):
		return convert.FormatJSON, nil
	}
	return "", errors.New("cannot determine source format, pass ?from= or a html/json Content-Type")
}

func writeResult(w http.ResponseWriter, to convert.Format, out []byte, warnings []bookmark.Warning) {
	if len(warnings) > 0 {
		// The header carries the warning list as compact JSON so the body
		// stays a pure document in the target format.
		if encoded, err := json.Marshal(warnings); err == nil {
			w.Header().Set("X-Conversion-Warnings", string(encoded))
		}
	}
	w.Header().Set("Content-Type", to.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func writeError(w http.ResponseWriter, status int, resp errorResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
