package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"runtime/debug"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/sharkspin/internal/common"
)

// Тело запроса больше 1 МБ не читаем
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Debug("Ошибка записи ответа")
	}
}

// writeOK отдаёт {"ok":true, ...fields}.
func writeOK(w http.ResponseWriter, fields map[string]any) {
	if fields == nil {
		fields = map[string]any{}
	}
	fields["ok"] = true
	writeJSON(w, http.StatusOK, fields)
}

// writeError переводит ошибку сервиса в HTTP-ответ.
// Отказ — 200 с текстом для игрока, как ждёт мини-приложение.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var rej *common.Rejection
	switch {
	case errors.As(err, &rej):
		log.WithFields(log.Fields{"path": r.URL.Path, "reason": err.Error()}).Debug("Отказ")
		writeJSON(w, http.StatusOK, map[string]any{"ok": false, "error": rej.Reason})
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrWrongPassword):
		writeJSON(w, http.StatusUnauthorized, map[string]any{"ok": false, "error": "unauthorized"})
	case errors.Is(err, errBadRequest):
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": err.Error()})
	default:
		log.WithError(err).WithField("path", r.URL.Path).Error("Ошибка обработки запроса")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "internal error"})
	}
}

var errBadRequest = errors.New("invalid request body")

// parseBody читает JSON-тело. Пустое тело допустимо.
func parseBody(r *http.Request, dst any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		return errBadRequest
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).Round(time.Millisecond),
		}).Debug("HTTP запрос")
	})
}

func withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rv := recover(); rv != nil {
				log.WithFields(log.Fields{
					"component": "panic_recovery",
					"panic":     rv,
					"path":      r.URL.Path,
					"stack":     string(debug.Stack()),
				}).Error("ПАНИКА в HTTP обработчике — восстановлено")
				writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "internal error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
