package ros

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	Sep       = "/"
	GlobalNS  = "/"
	PrivateNS = "~"
	Remap     = ":="
)

var (
	validName      = regexp.MustCompile(`^[~/]?([a-zA-Z]\w*/)*[a-zA-Z]\w*/?$`)
	validNamespace = regexp.MustCompile(`^/([a-zA-Z]\w*/)*$`)
)

// NameMap maps graph resource names to names.
type NameMap map[string]string

// getNamespace returns the parent namespace of name, with a trailing Sep.
func getNamespace(name string) string {
	if len(name) == 0 {
		return GlobalNS
	}
	name = strings.TrimSuffix(name, Sep)
	result := name[:strings.LastIndex(name, Sep)+1]
	if len(result) == 0 {
		return GlobalNS
	}
	return result
}

// qualifyNodeName splits a node name into namespace and base name.
func qualifyNodeName(nodeName string) (string, string, error) {
	if nodeName == "" {
		return "", "", fmt.Errorf("empty node name")
	}
	if strings.HasPrefix(nodeName, PrivateNS) {
		return "", "", fmt.Errorf("node name %q should not contain '~'", nodeName)
	}
	canonName := canonicalizeName(nodeName)
	var components []string
	for _, c := range strings.Split(canonName, Sep) {
		if len(c) > 0 {
			components = append(components, c)
		}
	}
	if len(components) == 0 {
		return "", "", fmt.Errorf("invalid node name %q", nodeName)
	}
	last := len(components) - 1
	if !isValidName(components[last]) {
		return "", "", fmt.Errorf("invalid node name %q", nodeName)
	}
	if last == 0 {
		return GlobalNS, components[0], nil
	}
	return GlobalNS + strings.Join(components[:last], Sep) + Sep, components[last], nil
}

func isValidName(name string) bool {
	if len(name) == 0 || name == GlobalNS || name == PrivateNS {
		return true
	}
	return validName.MatchString(name)
}

func isValidNamespace(name string) bool {
	return validNamespace.MatchString(name)
}

func isGlobalName(name string) bool {
	return strings.HasPrefix(name, GlobalNS)
}

func isPrivateName(name string) bool {
	return strings.HasPrefix(name, PrivateNS)
}

// canonicalizeName removes empty components and any trailing separator.
func canonicalizeName(name string) string {
	if name == "" || name == GlobalNS {
		return name
	}
	components := []string{}
	for _, word := range strings.Split(name, Sep) {
		if len(word) > 0 {
			components = append(components, word)
		}
	}
	joined := strings.Join(components, Sep)
	if isGlobalName(name) {
		return GlobalNS + joined
	}
	return joined
}

// canonicalizeNamespace makes ns absolute with a trailing separator.
func canonicalizeNamespace(ns string) string {
	ns = canonicalizeName(ns)
	if !isGlobalName(ns) {
		ns = GlobalNS + ns
	}
	if !strings.HasSuffix(ns, Sep) {
		ns += Sep
	}
	return ns
}

// processArguments sorts command line arguments into remappings,
// private parameters (_name:=value), special keys (__name:=value) and
// everything else.
func processArguments(args []string) (NameMap, NameMap, NameMap, []string) {
	mapping := make(NameMap)
	params := make(NameMap)
	specials := make(NameMap)
	rest := make([]string, 0)
	for _, arg := range args {
		components := strings.Split(arg, Remap)
		if len(components) != 2 {
			rest = append(rest, arg)
			continue
		}
		key, value := components[0], components[1]
		switch {
		case strings.HasPrefix(key, "__"):
			specials[key] = value
		case strings.HasPrefix(key, "_"):
			params[key[1:]] = value
		default:
			mapping[key] = value
		}
	}
	return mapping, params, specials, rest
}

// NameResolver resolves names relative to a node.
type NameResolver struct {
	namespace string
	nodeName  string
	mapping   NameMap
}

func newNameResolver(namespace string, nodeName string, remapping NameMap) *NameResolver {
	n := &NameResolver{
		namespace: canonicalizeNamespace(namespace),
		nodeName:  nodeName,
		mapping:   make(NameMap),
	}
	for k, v := range remapping {
		n.mapping[n.resolve(k)] = n.resolve(v)
	}
	return n
}

func (n *NameResolver) resolve(name string) string {
	if len(name) == 0 {
		return n.namespace
	}
	canonName := canonicalizeName(name)
	switch {
	case isGlobalName(canonName):
		return canonName
	case isPrivateName(canonName):
		return canonicalizeName(n.namespace + n.nodeName + Sep + canonName[1:])
	default:
		return n.namespace + canonName
	}
}

func (n *NameResolver) remap(name string) string {
	resolved := n.resolve(name)
	if remapped, ok := n.mapping[resolved]; ok {
		return remapped
	}
	return resolved
}
