package ollama

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultPort is the port an Ollama server listens on by default.
const DefaultPort = 11434

const defaultBaseURL = "http://localhost:11434"

// ResolveHost normalizes a host specification into the base URL used for
// all API requests. Accepted forms:
//
//	""               -> http://localhost:11434
//	"remote"         -> http://remote:11434
//	"remote:8080"    -> http://remote:8080
//	"https://remote" -> https://remote
//
// A specification carrying a scheme is used verbatim apart from trailing
// slash trimming; no default port is injected into it. The returned URL
// never ends in a slash.
func ResolveHost(spec string) (string, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return defaultBaseURL, nil
	}

	if strings.Contains(spec, "://") {
		u, err := url.Parse(spec)
		if err != nil {
			return "", fmt.Errorf("parsing host %q: %w", spec, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return "", fmt.Errorf("unsupported scheme %q in host %q", u.Scheme, spec)
		}
		if u.Host == "" {
			return "", fmt.Errorf("missing host in %q", spec)
		}
		return strings.TrimRight(u.String(), "/"), nil
	}

	host, port, hasPort := strings.Cut(spec, ":")
	if host == "" {
		return "", fmt.Errorf("missing host in %q", spec)
	}
	if !hasPort {
		return fmt.Sprintf("http://%s:%d", host, DefaultPort), nil
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return "", fmt.Errorf("invalid port %q in host %q", port, spec)
	}
	return fmt.Sprintf("http://%s:%d", host, n), nil
}
