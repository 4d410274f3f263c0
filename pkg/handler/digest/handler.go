package digest

import (
	"crypto"
	_ "crypto/md5"
	_ "crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"net/http"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/supercon99/gematria/pkg/encoding"
)

var hashFunctions = map[string]crypto.Hash{
	"md5":    crypto.MD5,
	"sha1":   crypto.SHA1,
	"sha224": crypto.SHA224,
	"sha256": crypto.SHA256,
	"sha384": crypto.SHA384,
	"sha512": crypto.SHA512,
}

func GetHashFunction(name string) (crypto.Hash, bool) {
	h, ok := hashFunctions[name]
	return h, ok
}

func GetRegisteredHashFunctions() []string {
	keys := []string{}
	for k := range hashFunctions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DigestHandler computes a digest over an already decoded payload.
type DigestHandler interface {
	Name() string
	Sum(data []byte) ([]byte, error)

	HTTPHandler(responseBuilders map[string]encoding.ResponseBuilder, maxContentLength int) http.Handler
}

// New creates the handler for a named algorithm from the hash function table.
func New(name string) (DigestHandler, error) {
	hashfunc, ok := GetHashFunction(name)
	if !ok {
		return nil, errors.Errorf("unknown digest algorithm %q (supported %s)", name, strings.Join(GetRegisteredHashFunctions(), ","))
	}
	return &Handler{name: name, hash: hashfunc}, nil
}

type Handler struct {
	name string
	hash crypto.Hash
}

func (h *Handler) Name() string {
	return h.name
}

func (h *Handler) Sum(data []byte) ([]byte, error) {
	if !h.hash.Available() {
		return nil, errors.Errorf("digest algorithm %q is not linked into the binary", h.name)
	}
	hasher := h.hash.New()
	hasher.Write(data)
	return hasher.Sum(nil), nil
}

func (h *Handler) HTTPHandler(responseBuilders map[string]encoding.ResponseBuilder, maxContentLength int) http.Handler {
	return &httpHandler{
		responseBuilders: responseBuilders,
		maxContentLength: maxContentLength,
		digester:         h,
	}
}

var handlers = map[string]DigestHandler{}

func Register(h DigestHandler) {
	handlers[h.Name()] = h
}

func Get(name string) (DigestHandler, error) {
	h := handlers[name]
	if h == nil {
		return nil, errors.Errorf("unknown digest algorithm %q (supported %s)", name, strings.Join(SupportedDigests(), ","))
	}
	return h, nil
}

func SupportedDigests() []string {
	s := []string{}
	for k := range handlers {
		s = append(s, k)
	}
	sort.Strings(s)
	return s
}

func All(algos ...string) []DigestHandler {
	all := []DigestHandler{}

	if len(algos) > 0 {
		for _, n := range algos {
			h := handlers[n]
			if h != nil {
				all = append(all, h)
			}
		}
	} else {
		for _, h := range handlers {
			all = append(all, h)
		}
	}
	return all
}
