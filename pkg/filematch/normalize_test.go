package filematch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "leading dot", in: "./schemas/a.schema", want: "schemas/a.schema"},
		{name: "parent component", in: "./schemas/../a.capnp", want: "schemas/a.capnp"},
		{name: "absolute", in: "/x/y.z", want: "x/y.z"},
		{name: "root only", in: "/", want: ""},
		{name: "empty", in: "", want: ""},
		{name: "dots only", in: "./../.", want: ""},
		{name: "repeated separators", in: "a//b///c", want: "a/b/c"},
		{name: "interior dot", in: "a/./b", want: "a/b"},
		{name: "plain file", in: "point.capnp", want: "point.capnp"},
		{name: "hidden file kept", in: "./.hidden/x.capnp", want: ".hidden/x.capnp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePath(tt.in))
		})
	}
}

func TestNormalizePath_Idempotent(t *testing.T) {
	inputs := []string{"./schemas/../a.capnp", "/x/y.z", "a//b", ".", "", "../../q"}
	for _, in := range inputs {
		once := NormalizePath(in)
		assert.Equal(t, once, NormalizePath(once), "input %q", in)
	}
}
