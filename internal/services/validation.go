package services

import (
	"net/url"
	"regexp"

	"github.com/fsdevblog/popuplink/internal/models"
)

// Диапазоны формы создания: задержка попапа и габариты кастомного размера.
const (
	MaxDelaySeconds = 10

	MinCustomWidth  = 200
	MaxCustomWidth  = 800
	MinCustomHeight = 150
	MaxCustomHeight = 600
)

// customCodeRegex допустимый пользовательский короткий код.
var customCodeRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{4,32}$`)

// validateAbsoluteURL проверяет что строка - корректный абсолютный http(s) URL.
func validateAbsoluteURL(field, rawURL string) *ValidationError {
	parsedURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return newValidationError(field, "invalid URL format")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return newValidationError(field, "URL must have http or https scheme")
	}
	if parsedURL.Host == "" {
		return newValidationError(field, "URL must have a host")
	}
	return nil
}

func validateDelay(delaySeconds float64) *ValidationError {
	if delaySeconds < 0 || delaySeconds > MaxDelaySeconds {
		return newValidationError("delaySeconds", "must be between 0 and 10")
	}
	return nil
}

// validateCustomSize требует габариты в допустимых пределах когда размер custom.
func validateCustomSize(size models.Size, width, height *int) *ValidationError {
	if size != models.SizeCustom {
		return nil
	}
	if width == nil || *width < MinCustomWidth || *width > MaxCustomWidth {
		return newValidationError("customWidth", "must be between 200 and 800")
	}
	if height == nil || *height < MinCustomHeight || *height > MaxCustomHeight {
		return newValidationError("customHeight", "must be between 150 and 600")
	}
	return nil
}

func validateCustomCode(code string) *ValidationError {
	if !customCodeRegex.MatchString(code) {
		return newValidationError("customCode",
			"must be 4-32 chars and may contain letters, numbers, '-' and '_'")
	}
	return nil
}
