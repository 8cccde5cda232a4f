package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/lendfast/appform/types"
	"github.com/shopspring/decimal"
)

// APIResponse writes the standard response envelope
func APIResponse(ctx *gin.Context, httpCode int, status string, message string, data interface{}) {
	ctx.JSON(httpCode, types.Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// GetErrorData converts a binding error into field-level error data
func GetErrorData(err error) []types.ErrorData {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		data := make([]types.ErrorData, 0, len(validationErrors))
		for _, fe := range validationErrors {
			data = append(data, types.ErrorData{
				Field:   fe.Field(),
				Message: fmt.Sprintf("%s failed on the %s rule", fe.Field(), fe.Tag()),
			})
		}
		return data
	}
	return []types.ErrorData{{Message: err.Error()}}
}

// ParseJSONResponse decodes an HTTP response body into a map. Returns an
// error for non-2xx statuses with the decoded body attached.
func ParseJSONResponse(res *http.Response) (map[string]interface{}, error) {
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var data map[string]interface{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, fmt.Errorf("failed to parse response body: %w", err)
		}
	}

	if res.StatusCode >= 300 {
		return data, fmt.Errorf("request failed with status %d: %v", res.StatusCode, data)
	}

	return data, nil
}

var nonAmountChars = regexp.MustCompile(`[^0-9.]`)

// ParseAmount parses a free-text currency string ("£250,000.50") into a
// decimal. The second return is false when nothing numeric remains.
func ParseAmount(s string) (decimal.Decimal, bool) {
	cleaned := nonAmountChars.ReplaceAllString(s, "")
	if cleaned == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseIntPrefix parses the leading integer of a free-text value such as
// "12 months". The second return is false when no digits lead the value.
func ParseIntPrefix(s string) (int, bool) {
	trimmed := strings.TrimSpace(s)
	end := 0
	for end < len(trimmed) && trimmed[end] >= '0' && trimmed[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(trimmed[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// SplitName splits a full name into first and last parts.
func SplitName(full string) (string, string) {
	parts := strings.Fields(strings.TrimSpace(full))
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// EscapeODataString doubles single quotes for use inside an OData filter literal.
func EscapeODataString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// EncodeDrivePath percent-encodes each segment of a drive path while keeping
// the separators intact.
func EncodeDrivePath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = urlPathEscape(segment)
	}
	return strings.Join(segments, "/")
}

func urlPathEscape(segment string) string {
	// net/url.PathEscape keeps characters Graph rejects in item paths, so
	// escape with query rules and restore the space convention.
	escaped := strings.ReplaceAll(segment, "%", "%25")
	escaped = strings.ReplaceAll(escaped, "#", "%23")
	escaped = strings.ReplaceAll(escaped, "?", "%3F")
	escaped = strings.ReplaceAll(escaped, " ", "%20")
	return escaped
}
