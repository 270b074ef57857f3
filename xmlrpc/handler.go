package xmlrpc

import (
	"bytes"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"sync"
)

// Method is a func taking the decoded XML-RPC parameters and returning
// (value, error). Parameters arrive as int32, float64, bool, string,
// []byte, []interface{} or map[string]interface{}.
type Method interface{}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Handler dispatches XML-RPC requests to Methods by name.
type Handler struct {
	mapping map[string]Method
	wait    sync.WaitGroup
}

// NewHandler panics when a mapping entry is not a func returning
// (value, error).
func NewHandler(mapping map[string]Method) *Handler {
	for name, m := range mapping {
		t := reflect.TypeOf(m)
		if t == nil || t.Kind() != reflect.Func || t.NumOut() != 2 || !t.Out(1).Implements(errorType) {
			panic(fmt.Sprintf("xmlrpc: method %q must be a func returning (value, error)", name))
		}
	}
	return &Handler{mapping: mapping}
}

// WaitForShutdown blocks until in-flight requests are answered.
func (h *Handler) WaitForShutdown() {
	h.wait.Wait()
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	h.wait.Add(1)
	defer h.wait.Done()

	var buffer bytes.Buffer
	name, args, err := parseRequest(req.Body)
	if err != nil {
		writeFault(w, 1, "Invalid request.")
		return
	}
	method, ok := h.mapping[name]
	if !ok {
		writeFault(w, 1, fmt.Sprintf("No method named '%v'.", name))
		return
	}
	argValues, err := bindArgs(reflect.TypeOf(method), args)
	if err != nil {
		writeFault(w, 1, fmt.Sprintf("Method '%v': %v", name, err))
		return
	}

	results := reflect.ValueOf(method).Call(argValues)
	if errValue := results[1]; !errValue.IsNil() {
		writeFault(w, 1, fmt.Sprintf("Method '%v' call failed: %v", name, errValue.Interface()))
		return
	}
	if err := emitResponse(&buffer, results[0].Interface()); err != nil {
		writeFault(w, 1, fmt.Sprintf("Method '%v' return an invalid result type.", name))
		return
	}
	w.Header().Set("Content-Type", "text/xml")
	w.Header().Set("Content-Length", strconv.Itoa(buffer.Len()))
	buffer.WriteTo(w)
}

func writeFault(w http.ResponseWriter, code int32, message string) {
	var buffer bytes.Buffer
	emitFault(&buffer, code, message)
	w.Header().Set("Content-Type", "text/xml")
	w.Header().Set("Content-Length", strconv.Itoa(buffer.Len()))
	buffer.WriteTo(w)
}

// bindArgs converts decoded params to the parameter types of fn.
func bindArgs(fn reflect.Type, args []interface{}) ([]reflect.Value, error) {
	if fn.NumIn() != len(args) {
		return nil, fmt.Errorf("expected %d params but got %d", fn.NumIn(), len(args))
	}
	values := make([]reflect.Value, len(args))
	for i, arg := range args {
		in := fn.In(i)
		v := reflect.ValueOf(arg)
		switch {
		case !v.IsValid():
			values[i] = reflect.Zero(in)
		case v.Type().AssignableTo(in):
			values[i] = v
		case isNumeric(v.Kind()) && isNumeric(in.Kind()):
			values[i] = v.Convert(in)
		default:
			return nil, fmt.Errorf("param %d is %v, want %v", i, v.Type(), in)
		}
	}
	return values, nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
