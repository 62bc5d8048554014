package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/rehiy/web-zte/modem"
)

type H map[string]any

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError 输出错误响应，extra 中的字段合并到响应体
func respondError(w http.ResponseWriter, status int, message string, err error, extra ...H) {
	body := H{"status": "error", "message": message}
	if err != nil {
		body["details"] = err.Error()
	}
	for _, e := range extra {
		for k, v := range e {
			body[k] = v
		}
	}
	respondJSON(w, status, body)
}

// respondModemError 按错误类型选择状态码并记录日志
func respondModemError(w http.ResponseWriter, r *http.Request, message string, err error, extra ...H) {
	status := modem.StatusCode(err)
	logger := zerolog.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", status).Msg(message)
	} else {
		logger.Warn().Err(err).Int("status", status).Msg(message)
	}
	respondError(w, status, message, err, extra...)
}

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("request body is empty")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// isForm 请求体是否为表单
func isForm(r *http.Request) bool {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return ct == "application/x-www-form-urlencoded" || ct == "multipart/form-data"
}

// queryID 读取查询参数中的整数 id
func queryID(r *http.Request) (int, error) {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		return 0, errors.New("id is required")
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// NotFound 未匹配的路由
func NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, "not found", nil)
}
