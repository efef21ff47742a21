package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/clinic-management/pkg/logger"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

const maxLoggedBody = 4096

// sensitiveFields are credential-like keys filtered from logs
var sensitiveFields = []string{
	"password",
	"token",
	"authorization",
	"secret",
	"api_key",
	"session",
	"credential",
	"cookie",
}

// phiFields are patient and staff identifiers and clinical findings masked
// from logs. Matching is by substring of the lower-cased key.
var phiFields = []string{
	"first_name",
	"middle_name",
	"last_name",
	"name",
	"address",
	"contact_number",
	"phone",
	"philhealth",
	"birth_date",
	"license",
	"blood_pressure",
	"systolic",
	"diastolic",
	"temperature",
	"pulse",
	"respiratory_rate",
	"weight",
	"height",
	"bmi",
	"note",
	"reason",
	"medication",
	"dosage",
	"frequency",
	"duration",
	"instructions",
	// NCD risk factors
	"smoking",
	"binge_drinking",
	"physical_inactivity",
	"unhealthy_diet",
	"diabetes",
	"family_history",
	"risk_factor",
	"risk_level",
	// HEEADSSS domains
	"home",
	"education",
	"eating",
	"activities",
	"drugs",
	"sexuality",
	"suicide",
	"safety",
	"concern",
	"referral",
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := logger.From(r.Context())

		logRequest(log, r)

		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		body := &bytes.Buffer{}
		ww.Tee(&limitedWriter{buf: body, limit: maxLoggedBody})

		next.ServeHTTP(ww, r)

		logResponse(log, r, ww.Status(), ww.BytesWritten(), body.Bytes(), time.Since(start))
	})
}

type limitedWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (l *limitedWriter) Write(p []byte) (int, error) {
	if room := l.limit - l.buf.Len(); room > 0 {
		if len(p) > room {
			l.buf.Write(p[:room])
		} else {
			l.buf.Write(p)
		}
	}
	return len(p), nil
}

func logRequest(log *slog.Logger, r *http.Request) {
	var bodyBytes []byte
	if r.Body != nil {
		bodyBytes, _ = io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	}

	log.Info("incoming request",
		"method", r.Method,
		"path", r.URL.Path,
		"query", r.URL.RawQuery,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
		"headers", filterSensitiveHeaders(r.Header),
		"body", filterSensitiveBody(bodyBytes),
	)
}

func logResponse(log *slog.Logger, r *http.Request, status, size int, body []byte, duration time.Duration) {
	if status == 0 {
		status = http.StatusOK
	}

	logLevel := slog.LevelInfo
	if status >= 400 && status < 500 {
		logLevel = slog.LevelWarn
	} else if status >= 500 {
		logLevel = slog.LevelError
	}

	log.Log(r.Context(), logLevel, "response",
		"method", r.Method,
		"path", r.URL.Path,
		"status_code", status,
		"duration_ms", duration.Milliseconds(),
		"response_size", size,
		"body", filterSensitiveBody(body),
	)
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, f := range sensitiveFields {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}

func isPHIKey(key string) bool {
	lower := strings.ToLower(key)
	for _, f := range phiFields {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}

// filterSensitiveHeaders removes or masks sensitive headers
func filterSensitiveHeaders(headers http.Header) map[string]string {
	filtered := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitiveKey(name) {
			filtered[name] = "[FILTERED]"
		} else {
			filtered[name] = strings.Join(values, ", ")
		}
	}
	return filtered
}

// filterSensitiveBody masks credentials and PHI in JSON bodies. Non-JSON
// bodies are not logged.
func filterSensitiveBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var jsonData interface{}
	if err := json.Unmarshal(body, &jsonData); err != nil {
		return "[NON-JSON BODY OMITTED]"
	}

	filteredBytes, err := json.Marshal(filterSensitiveJSON(jsonData))
	if err != nil {
		return "[ERROR - Failed to marshal filtered JSON]"
	}
	return string(filteredBytes)
}

// filterSensitiveJSON recursively filters sensitive fields from JSON data
func filterSensitiveJSON(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		filtered := make(map[string]interface{}, len(v))
		for key, value := range v {
			switch {
			case isSensitiveKey(key):
				filtered[key] = "[FILTERED]"
			case isPHIKey(key):
				filtered[key] = "[PHI]"
			default:
				filtered[key] = filterSensitiveJSON(value)
			}
		}
		return filtered
	case []interface{}:
		filtered := make([]interface{}, len(v))
		for i, item := range v {
			filtered[i] = filterSensitiveJSON(item)
		}
		return filtered
	default:
		return v
	}
}
