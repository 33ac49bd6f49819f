package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommand_Args(t *testing.T) {
	tests := []struct {
		name string
		cmd  *Command
		want []string
	}{
		{
			name: "defaults",
			cmd:  NewCommand("capnp").OutputPath("/tmp/out"),
			want: []string{"compile", "--output=rust:/tmp/out"},
		},
		{
			name: "no output dir",
			cmd:  NewCommand("capnp").File("a.capnp"),
			want: []string{"compile", "--output=rust", "a.capnp"},
		},
		{
			name: "all options in contract order",
			cmd: NewCommand("capnp").
				File("schemas/a.capnp").
				ImportPath("/usr/include").
				OutputPath("out").
				Plugin("c++").
				SrcPrefix("schemas").
				ExtraArgs("--no-standard-import").
				ImportPath("vendor").
				File("schemas/b.capnp"),
			want: []string{
				"compile",
				"--output=c++:out",
				"--src-prefix=schemas",
				"--import-path=/usr/include",
				"--import-path=vendor",
				"--no-standard-import",
				"schemas/a.capnp",
				"schemas/b.capnp",
			},
		},
		{
			name: "empty plugin keeps default",
			cmd:  NewCommand("capnp").Plugin("").OutputPath("o"),
			want: []string{"compile", "--output=rust:o"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cmd.Args())
		})
	}
}

func TestCommand_String(t *testing.T) {
	cmd := NewCommand("/opt/cap n/capnp").OutputPath("/tmp/out").File("it's.capnp")
	assert.Equal(t, `'/opt/cap n/capnp' compile --output=rust:/tmp/out 'it'"'"'s.capnp'`, cmd.String())
}

func TestCommand_FilesIsACopy(t *testing.T) {
	cmd := NewCommand("capnp").File("a.capnp")
	files := cmd.Files()
	files[0] = "mutated"
	assert.Equal(t, []string{"a.capnp"}, cmd.Files())
	assert.Equal(t, "capnp", cmd.Executable())
}

func TestSplitArgs(t *testing.T) {
	t.Setenv("CAPNP_TEST_INCLUDE", "/opt/include")

	args, err := SplitArgs(`--no-standard-import -I "$CAPNP_TEST_INCLUDE" 'a b'`)
	assert.NoError(t, err)
	assert.Equal(t, []string{"--no-standard-import", "-I", "/opt/include", "a b"}, args)

	args, err = SplitArgs("   ")
	assert.NoError(t, err)
	assert.Nil(t, args)

	_, err = SplitArgs(`"unterminated`)
	assert.Error(t, err)
}
