package msgspec

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Registry resolves nested message types by name and caches parsed specs.
type Registry struct {
	mu    sync.Mutex
	texts map[string]string
	specs map[string]*MsgSpec
}

func NewRegistry() *Registry {
	return &Registry{
		texts: make(map[string]string),
		specs: make(map[string]*MsgSpec),
	}
}

// AddMsg makes the definition of fullName available to LoadMsg and to the
// messages that embed it.
func (r *Registry) AddMsg(fullName string, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts[fullName] = text
	delete(r.specs, fullName)
}

// LoadMsg parses fullName and computes its MD5 sum.
func (r *Registry) LoadMsg(fullName string) (*MsgSpec, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(fullName, nil)
}

// LoadSrv parses a service definition. The request and response parts are
// registered as fullName+"Request" and fullName+"Response".
func (r *Registry) LoadSrv(fullName string, text string) (*SrvSpec, error) {
	components := strings.Split(text, IoDelim)
	if len(components) != 2 {
		return nil, errors.Errorf("service %s: missing '%s'", fullName, IoDelim)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	reqName, resName := fullName+"Request", fullName+"Response"
	r.texts[reqName], r.texts[resName] = components[0], components[1]
	delete(r.specs, reqName)
	delete(r.specs, resName)

	req, err := r.load(reqName, nil)
	if err != nil {
		return nil, err
	}
	res, err := r.load(resName, nil)
	if err != nil {
		return nil, err
	}
	reqText, err := r.md5Text(req, nil)
	if err != nil {
		return nil, err
	}
	resText, err := r.md5Text(res, nil)
	if err != nil {
		return nil, err
	}
	return &SrvSpec{
		FullName: fullName,
		Text:     text,
		Request:  req,
		Response: res,
		MD5Sum:   md5Hex(reqText + resText),
	}, nil
}

func (r *Registry) load(fullName string, visiting []string) (*MsgSpec, error) {
	if spec, ok := r.specs[fullName]; ok {
		return spec, nil
	}
	for _, name := range visiting {
		if name == fullName {
			return nil, errors.Errorf("recursive definition: %s", strings.Join(append(visiting, fullName), " -> "))
		}
	}
	text, ok := r.texts[fullName]
	if !ok {
		return nil, errors.Errorf("message definition of `%s` is not found", fullName)
	}
	spec, err := ParseMsg(fullName, text)
	if err != nil {
		return nil, err
	}
	md5text, err := r.md5Text(spec, append(visiting, fullName))
	if err != nil {
		return nil, errors.Wrapf(err, "computing MD5 of %s", fullName)
	}
	spec.MD5Sum = md5Hex(md5text)
	r.specs[fullName] = spec
	return spec, nil
}

// md5Text is the canonical text hashed for spec: constants, then builtin
// fields verbatim, embedded messages replaced by their own MD5 sum.
func (r *Registry) md5Text(spec *MsgSpec, visiting []string) (string, error) {
	var buf bytes.Buffer
	for _, c := range spec.Constants {
		fmt.Fprintf(&buf, "%s %s=%s\n", c.Type, c.Name, c.ValueText)
	}
	for _, f := range spec.Fields {
		if f.IsBuiltin() {
			buf.WriteString(f.String())
			buf.WriteByte('\n')
			continue
		}
		sub, err := r.load(f.FullType(), visiting)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&buf, "%s %s\n", sub.MD5Sum, f.Name)
	}
	return strings.Trim(buf.String(), "\n"), nil
}

func md5Hex(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}
