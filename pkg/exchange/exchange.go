package exchange

import (
	"mime"
	"strconv"
	"strings"
	"time"

	"github.com/getmockd/mockrules/pkg/rules/part"
	"github.com/getmockd/mockrules/pkg/traffic"
)

// Category classifies an exchange for display.
type Category string

// Exchange categories, in the order Category checks them.
const (
	CategoryIncomplete Category = "incomplete"
	CategoryAborted    Category = "aborted"
	CategoryMutative   Category = "mutative"
	CategoryImage      Category = "image"
	CategoryJS         Category = "js"
	CategoryCSS        Category = "css"
	CategoryHTML       Category = "html"
	CategoryFont       Category = "font"
	CategoryData       Category = "data"
	CategoryUnknown    Category = "unknown"
)

// Categories lists every category.
var Categories = []Category{
	CategoryIncomplete,
	CategoryAborted,
	CategoryMutative,
	CategoryImage,
	CategoryJS,
	CategoryCSS,
	CategoryHTML,
	CategoryFont,
	CategoryData,
	CategoryUnknown,
}

// Exchange is one observed request and, once it completes, its response.
type Exchange struct {
	// ID is assigned by the Store when empty. IDs sort in arrival order.
	ID string `json:"id"`

	// Timestamp is when the request was received.
	Timestamp time.Time `json:"timestamp"`

	Request  *traffic.Request  `json:"-"`
	Response *traffic.Response `json:"-"`

	// Aborted is set when the connection closed before a response was sent.
	Aborted bool `json:"aborted,omitempty"`

	// Source describes the client that sent the request. Defaults to the
	// User-Agent header.
	Source string `json:"source,omitempty"`

	// MatchedRuleID is the ID of the rule that handled the request, if any.
	MatchedRuleID string `json:"matchedRuleId,omitempty"`
}

// Protocol returns the protocol of the exchange's request.
func (e *Exchange) Protocol() part.Protocol {
	if e.Request != nil && e.Request.WebSocket {
		return part.ProtocolWebSocket
	}
	return part.ProtocolHTTP
}

// Category classifies the exchange. Aborted and incomplete exchanges come
// first, then any request that is not GET, HEAD or OPTIONS is mutative,
// then the response content type decides.
func (e *Exchange) Category() Category {
	if e.Aborted {
		return CategoryAborted
	}
	if e.Response == nil {
		return CategoryIncomplete
	}
	if e.Request != nil && isMutative(e.Request.Method) {
		return CategoryMutative
	}
	return categoryOf(e.Response.Header.Get("Content-Type"))
}

func isMutative(method string) bool {
	switch strings.ToUpper(method) {
	case "GET", "HEAD", "OPTIONS", "":
		return false
	default:
		return true
	}
}

func categoryOf(contentType string) Category {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}

	switch {
	case mediaType == "":
		return CategoryUnknown
	case strings.HasPrefix(mediaType, "image/"):
		return CategoryImage
	case strings.Contains(mediaType, "javascript") || strings.Contains(mediaType, "ecmascript"):
		return CategoryJS
	case mediaType == "text/css":
		return CategoryCSS
	case mediaType == "text/html" || mediaType == "application/xhtml+xml":
		return CategoryHTML
	case strings.HasPrefix(mediaType, "font/") || strings.Contains(mediaType, "font"):
		return CategoryFont
	case strings.HasSuffix(mediaType, "json") || strings.HasSuffix(mediaType, "xml") ||
		mediaType == "application/x-www-form-urlencoded" || strings.HasPrefix(mediaType, "multipart/") ||
		mediaType == "application/x-protobuf" || mediaType == "application/grpc" ||
		mediaType == "text/csv" || mediaType == "text/plain":
		return CategoryData
	default:
		return CategoryUnknown
	}
}

// Summary is the row an exchange list shows for an exchange.
type Summary struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Method   string   `json:"method"`
	Status   string   `json:"status"`
	Source   string   `json:"source"`
	Host     string   `json:"host"`
	Path     string   `json:"path"`
	Query    string   `json:"query"`
}

// Summary returns the display row for the exchange. Status is the response
// status code, "aborted", or "-" while the exchange is incomplete.
func (e *Exchange) Summary() Summary {
	s := Summary{
		ID:       e.ID,
		Category: e.Category(),
		Status:   "-",
		Source:   e.Source,
	}
	switch {
	case e.Aborted:
		s.Status = "aborted"
	case e.Response != nil:
		s.Status = strconv.Itoa(e.Response.StatusCode)
	}

	if req := e.Request; req != nil {
		s.Method = req.Method
		s.Host = req.Host()
		s.Path = req.Path()
		if req.URL != nil {
			s.Query = req.URL.RawQuery
		}
		if s.Source == "" && req.Header != nil {
			s.Source = req.Header.Get("User-Agent")
		}
	}
	return s
}
