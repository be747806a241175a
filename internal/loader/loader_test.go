package loader

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehrlich-b/go-minios/internal/constants"
)

type fakeFS map[string]string

func (f fakeFS) ReadFile(name string) (string, error) {
	v, ok := f[name]
	if !ok {
		return "", fmt.Errorf("no such file: %s", name)
	}
	return v, nil
}

func TestLoadStripsBlankLines(t *testing.T) {
	fs := fakeFS{"p.txt": "print x\n\n   \nprint y\n"}
	prog, err := Load(fs, "p.txt", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"print x", "print y"}, prog.Instructions)
}

func TestLoadDerivesProgramNumberFromBasename(t *testing.T) {
	fs := fakeFS{
		"dir/Program_1.txt": "print x",
		"Program_2.txt":      "print y",
		"Program_3.txt":      "print z",
		"custom.txt":          "print w",
	}

	p1, err := Load(fs, "dir/Program_1.txt", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, p1.ProgramNumber)

	p2, err := Load(fs, "Program_2.txt", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, p2.ProgramNumber)

	p3, err := Load(fs, "Program_3.txt", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, p3.ProgramNumber)

	custom, err := Load(fs, "custom.txt", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, custom.ProgramNumber)
}

func TestLoadTruncatesLongLines(t *testing.T) {
	long := strings.Repeat("x", constants.MaxLineLength+20)
	fs := fakeFS{"p.txt": "assign a " + long}
	prog, err := Load(fs, "p.txt", nil)
	require.NoError(t, err)
	require.Len(t, prog.Instructions, 1)
	assert.LessOrEqual(t, len(prog.Instructions[0]), constants.MaxLineLength)
}

func TestLoadCapsInstructionCount(t *testing.T) {
	var lines []string
	for i := 0; i < constants.MaxInstructions+10; i++ {
		lines = append(lines, "print x")
	}
	fs := fakeFS{"p.txt": strings.Join(lines, "\n")}

	prog, err := Load(fs, "p.txt", nil)
	require.NoError(t, err)
	assert.Len(t, prog.Instructions, constants.MaxInstructions)
}

func TestLoadMissingFile(t *testing.T) {
	fs := fakeFS{}
	_, err := Load(fs, "missing.txt", nil)
	assert.Error(t, err)
}
