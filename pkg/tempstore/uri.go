package tempstore

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// Scheme is the URI scheme under which temporary resources are served.
	Scheme = "mapmcp"

	// URITemplate is the resource template registered with the MCP server.
	URITemplate = Scheme + "://temp/{name}"

	uriPrefix = Scheme + "://temp/"
)

// NewID returns a fresh resource identifier: 16 cryptographically random
// bytes rendered as 32 hex characters. Ids must be unguessable so one
// session cannot address another session's resources.
func NewID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("tempstore: random source unavailable: %v", err))
	}
	return hex.EncodeToString(b[:])
}

// URI builds the addressable URI for a resource created by the named tool.
// The embedded id is exactly the key the payload is stored under.
func URI(tool, id string) string {
	return fmt.Sprintf("%s%s-%s", uriPrefix, tool, id)
}

// IDFromURI extracts the storage id from a temporary-resource URI. A
// malformed URI is an error distinct from a store miss.
func IDFromURI(uri string) (string, error) {
	rest, ok := strings.CutPrefix(uri, uriPrefix)
	if !ok {
		return "", fmt.Errorf("not a %s temp resource URI: %q", Scheme, uri)
	}
	i := strings.LastIndexByte(rest, '-')
	if i < 0 || i == len(rest)-1 {
		return "", fmt.Errorf("temp resource URI missing id: %q", uri)
	}
	return rest[i+1:], nil
}
