// Package config loads and saves rule set files.
//
// A rule set file is a JSON or YAML document holding a list of rules:
//
//	version: "1"
//	rules:
//	  - id: block-tracking
//	    type: http
//	    matchers:
//	      - type: host
//	        host: tracker.example.com
//	    handler:
//	      type: close-connection
//
// Files are checked against an embedded JSON Schema before their parts are
// decoded, and ${VAR} / ${VAR:-default} references are expanded from the
// environment first. LoadFiles accepts glob patterns (including **) and
// rejects rule IDs defined in more than one file:
//
//	loader := config.NewLoader(config.WithLogger(log))
//	res, err := loader.LoadFiles("rules/**/*.yaml")
//	if err != nil {
//	    return err
//	}
//	for _, err := range loader.Validate(res, serverVersion) {
//	    fmt.Println(err)
//	}
package config
