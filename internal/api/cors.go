package api

import (
	"strings"
)

// CORSPolicy decides which origins may read responses. Both the Lambda
// handler and the HTTP server resolve origins through it.
type CORSPolicy struct {
	allowAll bool
	allowed  map[string]bool
}

// NewCORSPolicy allows the listed origins. "*" or an empty list allows any
// origin.
func NewCORSPolicy(origins []string) *CORSPolicy {
	p := &CORSPolicy{allowed: make(map[string]bool, len(origins))}
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			p.allowAll = true
		}
		if origin != "" {
			p.allowed[origin] = true
		}
	}
	if len(p.allowed) == 0 {
		p.allowAll = true
	}
	return p
}

// AllowOrigin returns the Access-Control-Allow-Origin value for origin.
// ok is false when the origin may not read the response.
func (p *CORSPolicy) AllowOrigin(origin string) (value string, ok bool) {
	if p.allowAll {
		return "*", true
	}
	if origin != "" && p.allowed[origin] {
		return origin, true
	}
	return "", false
}

// Apply sets the allow headers for a request from origin
func (p *CORSPolicy) Apply(origin string, headers map[string]string) {
	value, ok := p.AllowOrigin(origin)
	if !ok {
		delete(headers, "Access-Control-Allow-Origin")
		return
	}
	headers["Access-Control-Allow-Origin"] = value
	if value != "*" {
		headers["Vary"] = "Origin"
	}
}

// RequestOrigin reads the Origin header. API Gateway does not normalise
// header case.
func RequestOrigin(headers map[string]string) string {
	for key, value := range headers {
		if strings.EqualFold(key, "Origin") {
			return value
		}
	}
	return ""
}
