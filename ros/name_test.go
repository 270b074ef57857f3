package ros

import (
	"testing"
)

func TestNameValidation(t *testing.T) {
	positives := [...]string{
		"",
		"/",
		"~",
		"foo",
		"foo/",
		"foo/bar",
		"foo/bar/",
		"foo_0/bar1_/",
		"/foo",
		"/foo/",
		"/foo/bar",
		"/foo/bar/",
		"~foo",
		"~foo/bar/",
		"getPath",
	}
	for _, p := range positives {
		if !isValidName(p) {
			t.Error(p)
		}
	}

	negatives := [...]string{
		"foo//bar",
		"^foo//bar",
		"//foo",
		"0foo",
		"_0foo",
		"foo/0bar",
		"foo/_bar",
		"foo/~bar",
		"foo bar",
	}
	for _, n := range negatives {
		if isValidName(n) {
			t.Error(n)
		}
	}
}

func TestNamespaceValidation(t *testing.T) {
	for _, ns := range []string{"/", "/foo/", "/foo/bar/"} {
		if !isValidNamespace(ns) {
			t.Error(ns)
		}
	}
	for _, ns := range []string{"", "foo/", "/foo", "/0foo/"} {
		if isValidNamespace(ns) {
			t.Error(ns)
		}
	}
}

func TestCanonicalizeName(t *testing.T) {
	cases := map[string]string{
		"/":                "/",
		"/foo//bar/":       "/foo/bar",
		"foo//bar///baz/":  "foo/bar/baz",
		"~foo//bar///baz/": "~foo/bar/baz",
	}
	for in, expected := range cases {
		if out := canonicalizeName(in); out != expected {
			t.Errorf("%s: %s", in, out)
		}
	}
	if ns := canonicalizeNamespace("go//sub"); ns != "/go/sub/" {
		t.Error(ns)
	}
}

func TestSpecialNamespace(t *testing.T) {
	if !isGlobalName("/foo") || isGlobalName("~foo") || isGlobalName("foo") {
		t.Fail()
	}
	if isPrivateName("/foo") || !isPrivateName("~foo") || isPrivateName("foo") {
		t.Fail()
	}
}

func TestQualifyNodeName(t *testing.T) {
	ns, name, err := qualifyNodeName("call_srv")
	if err != nil || ns != "/" || name != "call_srv" {
		t.Error(ns, name, err)
	}
	ns, name, err = qualifyNodeName("/walking//planner/")
	if err != nil || ns != "/walking/" || name != "planner" {
		t.Error(ns, name, err)
	}
	for _, bad := range []string{"", "~node", "/", "0node"} {
		if _, _, err := qualifyNodeName(bad); err == nil {
			t.Error(bad)
		}
	}
}

func TestResolution(t *testing.T) {
	cases := []struct {
		namespace, node, name, expected string
	}{
		{"/", "node1", "bar", "/bar"},
		{"/", "node1", "/bar", "/bar"},
		{"/", "node1", "~bar", "/node1/bar"},
		{"/", "call_srv", "getPath", "/getPath"},
		{"/go", "node2", "bar", "/go/bar"},
		{"/go", "node2", "/bar", "/bar"},
		{"/go", "node2", "~bar", "/go/node2/bar"},
		{"/go", "node3", "foo/bar", "/go/foo/bar"},
		{"/go", "node3", "/foo/bar", "/foo/bar"},
		{"/go", "node3", "~foo/bar", "/go/node3/foo/bar"},
		{"/go", "node3", "", "/go/"},
	}
	for _, c := range cases {
		resolver := newNameResolver(c.namespace, c.node, NameMap{})
		if result := resolver.resolve(c.name); result != c.expected {
			t.Errorf("%s in %s: %s", c.name, c.namespace, result)
		}
	}
}

func TestNameMap(t *testing.T) {
	cases := []struct {
		namespace string
		remapping NameMap
		name      string
		expected  string
	}{
		{"/", NameMap{"foo": "bar"}, "foo", "/bar"},
		{"/", NameMap{"foo": "bar"}, "/foo", "/bar"},
		{"/baz", NameMap{"foo": "bar"}, "foo", "/baz/bar"},
		{"/baz", NameMap{"foo": "bar"}, "/baz/foo", "/baz/bar"},
		{"/", NameMap{"/foo": "bar"}, "foo", "/bar"},
		{"/baz", NameMap{"/foo": "bar"}, "/foo", "/baz/bar"},
		{"/baz", NameMap{"/foo": "/a/b/c/bar"}, "/foo", "/a/b/c/bar"},
		{"/", NameMap{"getPath": "/walking/getPath"}, "getPath", "/walking/getPath"},
	}
	for _, c := range cases {
		resolver := newNameResolver(c.namespace, "mynode", c.remapping)
		if result := resolver.remap(c.name); result != c.expected {
			t.Errorf("%v in %s: %s", c.remapping, c.namespace, result)
		}
	}
}

func TestGetNamespace(t *testing.T) {
	cases := map[string]string{
		"":             "/",
		"/":            "/",
		"/foo":         "/",
		"/foo/":        "/",
		"/foo/bar":     "/foo/",
		"/foo/bar/baz": "/foo/bar/",
	}
	for in, expected := range cases {
		if ns := getNamespace(in); ns != expected {
			t.Errorf("%s: %s", in, ns)
		}
	}
}

func TestProcessArguments(t *testing.T) {
	args := []string{
		"foo:=bar",
		"_param:=value",
		"__master:=http://localhost:11311",
		"foo",
		"42",
	}

	mapping, params, specials, rest := processArguments(args)
	if mapping["foo"] != "bar" {
		t.Fail()
	}
	if params["param"] != "value" {
		t.Fail()
	}
	if specials["__master"] != "http://localhost:11311" {
		t.Fail()
	}
	if len(rest) != 2 || rest[0] != "foo" || rest[1] != "42" {
		t.Error(rest)
	}
}
