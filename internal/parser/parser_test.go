package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Blank(t *testing.T) {
	for _, in := range []string{"", "   ", "\t\n", " \t \n"} {
		cmd, err := Parse(in)
		assert.NoError(t, err, "input %q", in)
		assert.Nil(t, cmd, "input %q", in)
	}
}

func TestParse_External(t *testing.T) {
	cmd, err := Parse("/bin/echo hello   world\n")
	require.NoError(t, err)

	ext, ok := cmd.(External)
	require.True(t, ok, "expected External, got %T", cmd)
	assert.Equal(t, "/bin/echo", ext.Request.Path)
	assert.Equal(t, []string{"echo", "hello", "world"}, ext.Request.Argv)
	assert.True(t, ext.Request.Foreground)
	assert.Equal(t, "/bin/echo hello   world", ext.Request.Line)
}

func TestParse_Background(t *testing.T) {
	cmd, err := Parse("/bin/sleep 10 &")
	require.NoError(t, err)

	ext := cmd.(External)
	assert.False(t, ext.Request.Foreground)
	assert.Equal(t, []string{"sleep", "10"}, ext.Request.Argv)
	assert.Equal(t, "/bin/sleep 10", ext.Request.Line)
}

func TestParse_BackgroundBeforeRedirect(t *testing.T) {
	cmd, err := Parse("/bin/sleep 5  &  > out.txt")
	require.NoError(t, err)

	ext := cmd.(External)
	assert.False(t, ext.Request.Foreground)
	assert.Equal(t, []string{"sleep", "5"}, ext.Request.Argv)
	assert.Equal(t, "out.txt", ext.Request.Stdout)
	assert.Equal(t, "/bin/sleep 5  > out.txt", ext.Request.Line)
}

func TestParse_AmpersandAsRedirectTarget(t *testing.T) {
	cmd, err := Parse("/bin/echo & > &")
	require.NoError(t, err)

	ext := cmd.(External)
	assert.False(t, ext.Request.Foreground)
	assert.Equal(t, "&", ext.Request.Stdout)
	assert.Equal(t, "/bin/echo > &", ext.Request.Line)
}

func TestParse_LoneAmpersand(t *testing.T) {
	cmd, err := Parse("&")
	assert.ErrorIs(t, err, ErrNoCommand)
	assert.Nil(t, cmd)
}

func TestParse_Redirections(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		stdin  string
		stdout string
		append bool
		argv   []string
	}{
		{"input", "/bin/cat < in.txt", "in.txt", "", false, []string{"cat"}},
		{"output", "/bin/ls > out.txt", "", "out.txt", false, []string{"ls"}},
		{"append", "/bin/ls -l >> out.txt", "", "out.txt", true, []string{"ls", "-l"}},
		{"both", "< in.txt /usr/bin/sort -r > out.txt", "in.txt", "out.txt", false, []string{"sort", "-r"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Parse(tt.input)
			require.NoError(t, err)

			req := cmd.(External).Request
			assert.Equal(t, tt.stdin, req.Stdin)
			assert.Equal(t, tt.stdout, req.Stdout)
			assert.Equal(t, tt.append, req.Append)
			assert.Equal(t, tt.argv, req.Argv)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"/bin/cat < a < b", ErrDuplicateInput},
		{"/bin/ls > a > b", ErrDuplicateOutput},
		{"/bin/ls > a >> b", ErrDuplicateOutput},
		{"/bin/cat <", ErrMissingTarget},
		{"/bin/ls >>", ErrMissingTarget},
		{"> out.txt", ErrNoCommand},
	}

	for _, tt := range tests {
		cmd, err := Parse(tt.input)
		assert.ErrorIs(t, err, tt.want, "input %q", tt.input)
		assert.Nil(t, cmd, "input %q", tt.input)
	}
}

func TestParse_Builtins(t *testing.T) {
	cmd, err := Parse("fg %2")
	require.NoError(t, err)
	assert.Equal(t, Builtin{Name: "fg", Args: []string{"%2"}}, cmd)

	cmd, err = Parse("jobs")
	require.NoError(t, err)
	assert.Equal(t, Builtin{Name: "jobs", Args: []string{}}, cmd)
}

func TestParse_PathIsNeverBuiltin(t *testing.T) {
	cmd, err := Parse("./cd somewhere")
	require.NoError(t, err)
	_, ok := cmd.(External)
	assert.True(t, ok)

	cmd, err = Parse("/usr/bin/rm x")
	require.NoError(t, err)
	ext := cmd.(External)
	assert.Equal(t, "rm", ext.Request.Argv[0])
}

func TestIsBuiltin(t *testing.T) {
	for _, name := range []string{"cd", "ln", "rm", "exit", "jobs", "fg", "bg"} {
		assert.True(t, IsBuiltin(name), name)
	}
	for _, name := range []string{"pwd", "Exit", "FG", "/bin/cd", "a/jobs", ""} {
		assert.False(t, IsBuiltin(name), name)
	}
}
