package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/getmockd/mockrules/pkg/cli/internal/output"
	"github.com/spf13/cobra"
)

// VersionOutput represents JSON output format
type VersionOutput struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`

	ServerURL     string `json:"serverUrl,omitempty"`
	ServerVersion string `json:"serverVersion,omitempty"`
	ServerError   string `json:"serverError,omitempty"`
}

func (a *app) newVersionCmd() *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show mockrules and proxy server version information",
		Long: `Show mockrules build information and the proxy server version. The server
version comes from --server-version or the config when set; otherwise the
server at --server-url is asked, unless --offline is given. An unreachable
server is reported but is not an error.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := buildInfo()

			switch {
			case a.cfg.ServerVersion != "":
				out.ServerVersion = a.cfg.ServerVersion
			case !offline && a.cfg.ServerURL != "":
				out.ServerURL = a.cfg.ServerURL
				v, err := a.discoverVersion(cmd.Context())
				if err != nil {
					out.ServerError = err.Error()
				}
				out.ServerVersion = v
			}

			w := cmd.OutOrStdout()
			if a.cfg.JSON {
				return output.JSON(w, out)
			}

			v := out.Version
			if len(v) > 0 && v[0] != 'v' && v != "dev" && v != "(devel)" {
				v = "v" + v
			}
			fmt.Fprintf(w, "mockrules %s (%s, %s)\n", v, out.Commit, out.Date)
			fmt.Fprintf(w, "%s %s/%s\n", out.Go, out.OS, out.Arch)
			switch {
			case out.ServerError != "":
				fmt.Fprintf(w, "server: unavailable (%s)\n", out.ServerError)
			case out.ServerVersion != "":
				fmt.Fprintf(w, "server: %s\n", out.ServerVersion)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Do not contact the server")
	return cmd
}

func buildInfo() VersionOutput {
	version := Version
	commit := Commit
	date := BuildDate

	if info, ok := debug.ReadBuildInfo(); ok {
		if version == "dev" && info.Main.Version != "" {
			version = info.Main.Version
		}
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if commit == "none" {
					commit = setting.Value
				}
			case "vcs.time":
				if date == "unknown" {
					date = setting.Value
				}
			case "vcs.modified":
				if setting.Value == "true" {
					commit += "-dirty"
				}
			}
		}
	}

	return VersionOutput{
		Version: version,
		Commit:  commit,
		Date:    date,
		Go:      runtime.Version(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}
}
