package httpdef

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/getmockd/mockrules/pkg/rules/part"
)

// StaticResponseHandler replies with a fixed response.
type StaticResponseHandler struct {
	Status        int               `json:"status"`
	StatusMessage string            `json:"statusMessage,omitempty"`
	Headers       map[string]string `json:"headers,omitempty"`
	Body          string            `json:"data,omitempty"`
}

func (*StaticResponseHandler) Type() part.Key      { return HandlerSimple }
func (*StaticResponseHandler) Action() part.Action { return part.ActionRespond }
func (h *StaticResponseHandler) Explain() string {
	return fmt.Sprintf("respond with status %s", describeStatus(h.Status, h.StatusMessage))
}

// Validate requires a status between 100 and 599 and valid header names.
func (h *StaticResponseHandler) Validate() error {
	if err := validateStatus("status", h.Status); err != nil {
		return err
	}
	return validateHeaders("headers", h.Headers)
}

// FromFileResponseHandler replies with the contents of a file.
type FromFileResponseHandler struct {
	Status        int               `json:"status"`
	StatusMessage string            `json:"statusMessage,omitempty"`
	Headers       map[string]string `json:"headers,omitempty"`
	FilePath      string            `json:"filePath"`
}

func (*FromFileResponseHandler) Type() part.Key      { return HandlerFile }
func (*FromFileResponseHandler) Action() part.Action { return part.ActionRespond }
func (h *FromFileResponseHandler) Explain() string {
	return fmt.Sprintf("respond with status %s and the contents of %s",
		describeStatus(h.Status, h.StatusMessage), h.FilePath)
}

// Validate additionally requires a file path. The file itself is not
// checked.
func (h *FromFileResponseHandler) Validate() error {
	if err := validateStatus("status", h.Status); err != nil {
		return err
	}
	if strings.TrimSpace(h.FilePath) == "" {
		return &part.ConfigError{Field: "filePath", Message: "file path is required"}
	}
	return validateHeaders("headers", h.Headers)
}

// PassThroughHandler forwards the request to its original destination.
type PassThroughHandler struct {
	IgnoreCertificateErrors []string `json:"ignoreHostHttpsErrors,omitempty"`
}

func (*PassThroughHandler) Type() part.Key      { return HandlerPassthrough }
func (*PassThroughHandler) Action() part.Action { return part.ActionForward }
func (*PassThroughHandler) Explain() string     { return "pass the request on to the target host" }

// ForwardToHostHandler forwards the request to a different host.
type ForwardToHostHandler struct {
	TargetHost       string `json:"targetHost"`
	UpdateHostHeader bool   `json:"updateHostHeader,omitempty"`
}

func (*ForwardToHostHandler) Type() part.Key      { return HandlerForwardToHost }
func (*ForwardToHostHandler) Action() part.Action { return part.ActionForward }
func (h *ForwardToHostHandler) Explain() string {
	return fmt.Sprintf("forward the request to %s", h.TargetHost)
}

// Validate requires a host, with an optional scheme and port but no path.
func (h *ForwardToHostHandler) Validate() error {
	return validateTargetHost(h.TargetHost)
}

func validateTargetHost(target string) error {
	if target == "" {
		return &part.ConfigError{Field: "targetHost", Message: "target host is required"}
	}
	raw := target
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return &part.ConfigError{Field: "targetHost", Message: fmt.Sprintf("invalid target host %q", target)}
	}
	if u.Path != "" && u.Path != "/" {
		return &part.ConfigError{Field: "targetHost", Message: "target host must not include a path"}
	}
	return nil
}

// RequestTransform describes changes applied to a request before it is
// forwarded.
type RequestTransform struct {
	ReplaceMethod  string            `json:"replaceMethod,omitempty"`
	UpdateHeaders  map[string]string `json:"updateHeaders,omitempty"`
	ReplaceBody    string            `json:"replaceBody,omitempty"`
	UpdateJSONBody map[string]any    `json:"updateJsonBody,omitempty"`
}

// ResponseTransform describes changes applied to a response before it is
// returned.
type ResponseTransform struct {
	ReplaceStatus  int               `json:"replaceStatus,omitempty"`
	UpdateHeaders  map[string]string `json:"updateHeaders,omitempty"`
	ReplaceBody    string            `json:"replaceBody,omitempty"`
	UpdateJSONBody map[string]any    `json:"updateJsonBody,omitempty"`
}

// TransformingHandler passes the request through, rewriting the request
// and/or the response on the way.
type TransformingHandler struct {
	TransformRequest  *RequestTransform  `json:"transformRequest,omitempty"`
	TransformResponse *ResponseTransform `json:"transformResponse,omitempty"`
}

func (*TransformingHandler) Type() part.Key      { return HandlerTransformer }
func (*TransformingHandler) Action() part.Action { return part.ActionTransform }

// Explain describes which sides of the exchange are transformed.
func (h *TransformingHandler) Explain() string {
	switch {
	case h.TransformRequest != nil && h.TransformResponse != nil:
		return "transform the request and the response"
	case h.TransformRequest != nil:
		return "transform the request, then pass it through"
	case h.TransformResponse != nil:
		return "pass the request through, then transform the response"
	default:
		return "pass the request through unchanged"
	}
}

// Validate requires at least one transform. A transform may replace or
// update the body, not both.
func (h *TransformingHandler) Validate() error {
	if h.TransformRequest == nil && h.TransformResponse == nil {
		return &part.ConfigError{Field: "transformRequest", Message: "at least one transform is required"}
	}
	if t := h.TransformRequest; t != nil {
		if t.ReplaceBody != "" && len(t.UpdateJSONBody) > 0 {
			return &part.ConfigError{Field: "transformRequest", Message: "cannot both replace and update the body"}
		}
		if t.ReplaceMethod != "" && !headerNameRegex.MatchString(t.ReplaceMethod) {
			return &part.ConfigError{Field: "transformRequest.replaceMethod", Message: fmt.Sprintf("invalid HTTP method: %s", t.ReplaceMethod)}
		}
		if err := validateHeaders("transformRequest.updateHeaders", t.UpdateHeaders); err != nil {
			return err
		}
	}
	if t := h.TransformResponse; t != nil {
		if t.ReplaceBody != "" && len(t.UpdateJSONBody) > 0 {
			return &part.ConfigError{Field: "transformResponse", Message: "cannot both replace and update the body"}
		}
		if t.ReplaceStatus != 0 {
			if err := validateStatus("transformResponse.replaceStatus", t.ReplaceStatus); err != nil {
				return err
			}
		}
		if err := validateHeaders("transformResponse.updateHeaders", t.UpdateHeaders); err != nil {
			return err
		}
	}
	return nil
}

// RequestBreakpointHandler pauses the request for manual editing.
type RequestBreakpointHandler struct{}

func (*RequestBreakpointHandler) Type() part.Key      { return HandlerRequestBreakpoint }
func (*RequestBreakpointHandler) Action() part.Action { return part.ActionBreakpoint }
func (*RequestBreakpointHandler) Explain() string {
	return "manually rewrite the request before it is forwarded"
}

// ResponseBreakpointHandler pauses the response for manual editing.
type ResponseBreakpointHandler struct{}

func (*ResponseBreakpointHandler) Type() part.Key      { return HandlerResponseBreakpoint }
func (*ResponseBreakpointHandler) Action() part.Action { return part.ActionBreakpoint }
func (*ResponseBreakpointHandler) Explain() string {
	return "manually rewrite the response before it is returned"
}

// RequestAndResponseBreakpointHandler pauses both the request and the
// response.
type RequestAndResponseBreakpointHandler struct{}

func (*RequestAndResponseBreakpointHandler) Type() part.Key {
	return HandlerRequestAndResponseBreakpoint
}
func (*RequestAndResponseBreakpointHandler) Action() part.Action { return part.ActionBreakpoint }
func (*RequestAndResponseBreakpointHandler) Explain() string {
	return "manually rewrite the request and the response"
}

// TimeoutHandler accepts the request and never responds.
type TimeoutHandler struct{}

func (*TimeoutHandler) Type() part.Key      { return HandlerTimeout }
func (*TimeoutHandler) Action() part.Action { return part.ActionTimeout }
func (*TimeoutHandler) Explain() string     { return "time out with no response" }

// CloseConnectionHandler closes the connection cleanly.
type CloseConnectionHandler struct{}

func (*CloseConnectionHandler) Type() part.Key      { return HandlerCloseConnection }
func (*CloseConnectionHandler) Action() part.Action { return part.ActionClose }
func (*CloseConnectionHandler) Explain() string     { return "close the connection" }

// ResetConnectionHandler kills the connection with a TCP reset.
type ResetConnectionHandler struct{}

func (*ResetConnectionHandler) Type() part.Key      { return HandlerResetConnection }
func (*ResetConnectionHandler) Action() part.Action { return part.ActionReset }
func (*ResetConnectionHandler) Explain() string     { return "reset the connection" }

// CallbackHandler delegates the response to a named callback registered
// with the proxy.
type CallbackHandler struct {
	Callback string `json:"callback"`
}

func (*CallbackHandler) Type() part.Key      { return HandlerCallback }
func (*CallbackHandler) Action() part.Action { return part.ActionCallback }
func (h *CallbackHandler) Explain() string {
	return fmt.Sprintf("respond using the %s callback", h.Callback)
}

func (h *CallbackHandler) Validate() error {
	if h.Callback == "" {
		return &part.ConfigError{Field: "callback", Message: "callback name is required"}
	}
	return nil
}

// StreamHandler replies with a response body streamed in chunks.
type StreamHandler struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers,omitempty"`
	Chunks  []string          `json:"chunks"`
}

func (*StreamHandler) Type() part.Key      { return HandlerStream }
func (*StreamHandler) Action() part.Action { return part.ActionStream }
func (h *StreamHandler) Explain() string {
	return fmt.Sprintf("respond with status %d and a streamed body of %d chunks", h.Status, len(h.Chunks))
}

// Validate checks the status and header names. Chunks may be empty.
func (h *StreamHandler) Validate() error {
	if err := validateStatus("status", h.Status); err != nil {
		return err
	}
	return validateHeaders("headers", h.Headers)
}

func validateStatus(field string, status int) error {
	if status < 100 || status > 599 {
		return &part.ConfigError{Field: field, Message: fmt.Sprintf("status %d is outside 100-599", status)}
	}
	return nil
}

func validateHeaders(field string, headers map[string]string) error {
	for name := range headers {
		if !headerNameRegex.MatchString(name) {
			return &part.ConfigError{Field: field, Message: fmt.Sprintf("invalid header name: %s", name)}
		}
	}
	return nil
}

func describeStatus(status int, message string) string {
	if message == "" {
		message = http.StatusText(status)
	}
	if message == "" {
		return fmt.Sprintf("%d", status)
	}
	return fmt.Sprintf("%d (%s)", status, message)
}
