package matching

import (
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/getmockd/mockrules/pkg/traffic"
	"github.com/ohler55/ojg/jp"
)

var conditionCache sync.Map // map[string]*vm.Program

// CompileCondition compiles a boolean expression over a request.
//
// Available variables: method, url, protocol, host, hostname, port, path,
// query (first value per name), headers (lower-cased names), cookies,
// body, websocket. jsonPath(expr) evaluates a JSONPath expression against
// the body and returns the first result, or nil.
func CompileCondition(source string) (*vm.Program, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("condition is empty")
	}
	if cached, ok := conditionCache.Load(source); ok {
		return cached.(*vm.Program), nil
	}
	program, err := expr.Compile(source, expr.Env(conditionEnv(nil)), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", source, err)
	}
	actual, _ := conditionCache.LoadOrStore(source, program)
	return actual.(*vm.Program), nil
}

// EvalCondition compiles (or reuses) source and evaluates it against req.
// Compilation or runtime failures do not match.
func EvalCondition(source string, req *traffic.Request) bool {
	program, err := CompileCondition(source)
	if err != nil {
		return false
	}
	out, err := expr.Run(program, conditionEnv(req))
	if err != nil {
		return false
	}
	ok, _ := out.(bool)
	return ok
}

func conditionEnv(req *traffic.Request) map[string]any {
	env := map[string]any{
		"method":    "",
		"url":       "",
		"protocol":  "",
		"host":      "",
		"hostname":  "",
		"port":      "",
		"path":      "",
		"query":     map[string]string{},
		"headers":   map[string]string{},
		"cookies":   map[string]string{},
		"body":      "",
		"websocket": false,
		"jsonPath":  func(string) any { return nil },
	}
	if req == nil {
		return env
	}

	query := make(map[string]string)
	for k, v := range req.Query() {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}
	headers := make(map[string]string, len(req.Header))
	for k, v := range req.Header {
		headers[strings.ToLower(k)] = strings.Join(v, ", ")
	}
	cookies := make(map[string]string)
	for _, c := range req.Cookies() {
		cookies[c.Name] = c.Value
	}
	body := req.Body

	env["method"] = req.Method
	if req.URL != nil {
		env["url"] = req.URL.String()
	}
	env["protocol"] = req.Protocol()
	env["host"] = req.Host()
	env["hostname"] = req.Hostname()
	env["port"] = req.Port()
	env["path"] = req.Path()
	env["query"] = query
	env["headers"] = headers
	env["cookies"] = cookies
	env["body"] = string(body)
	env["websocket"] = req.WebSocket
	env["jsonPath"] = func(path string) any {
		return jsonPathFirst(path, body)
	}
	return env
}

func jsonPathFirst(path string, body []byte) any {
	data, ok := ParseJSON(body)
	if !ok {
		return nil
	}
	x, err := jp.ParseString(path)
	if err != nil {
		return nil
	}
	results := x.Get(data)
	if len(results) == 0 {
		return nil
	}
	return results[0]
}
