package walletapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/h2non/filetype"

	"github.com/ignatzorin/wallet-gateway/internal/pkg/apperror"
)

// Разрешённые типы иконок способов вывода
var allowedIconTypes = map[string]bool{
	"image/png":                true,
	"image/jpeg":               true,
	"image/gif":                true,
	"image/webp":               true,
	"image/x-icon":             true,
	"image/vnd.microsoft.icon": true,
	"image/svg+xml":            true,
}

// Icon — загруженная иконка с определённым по содержимому типом.
type Icon struct {
	Data        []byte
	ContentType string
}

// FetchIcon скачивает иконку метода. Относительный iconURL разрешается от адреса upstream.
// Тип определяется по содержимому, а не по заголовку ответа.
func (c *Client) FetchIcon(ctx context.Context, iconURL string, maxBytes int64) (*Icon, error) {
	if strings.TrimSpace(iconURL) == "" {
		return nil, apperror.New(apperror.ErrCodeNotFound, "Payment method has no icon")
	}
	target, err := c.resolve(iconURL)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeBadRequest, MsgFetchIcon)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUpstream, MsgFetchIcon)
	}
	if id := RequestIDFrom(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUpstream, MsgFetchIcon)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.New(apperror.ErrCodeUpstream, MsgFetchIcon)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUpstream, MsgFetchIcon)
	}
	if int64(len(data)) > maxBytes {
		return nil, apperror.New(apperror.ErrCodeUpstream, "Payment method icon is too large")
	}

	contentType, err := DetectIconType(data)
	if err != nil {
		return nil, err
	}
	return &Icon{Data: data, ContentType: contentType}, nil
}

// DetectIconType определяет MIME тип изображения по сигнатуре.
// SVG текстовый, filetype его не распознаёт, поэтому проверяется отдельно.
func DetectIconType(data []byte) (string, error) {
	kind, err := filetype.Match(data)
	if err == nil && kind != filetype.Unknown && allowedIconTypes[kind.MIME.Value] {
		return kind.MIME.Value, nil
	}

	head := strings.ToLower(strings.TrimSpace(string(data[:min(len(data), 512)])))
	if strings.HasPrefix(head, "<svg") || (strings.HasPrefix(head, "<?xml") && strings.Contains(head, "<svg")) {
		return "image/svg+xml", nil
	}

	return "", apperror.New(apperror.ErrCodeUpstream, "Payment method icon is not an image")
}

func (c *Client) resolve(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	if u.IsAbs() {
		if u.Scheme != "http" && u.Scheme != "https" {
			return "", fmt.Errorf("walletapi: схема %q не поддерживается", u.Scheme)
		}
		return u.String(), nil
	}
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return "", err
	}
	return base.ResolveReference(u).String(), nil
}
