package main

import (
	"bytes"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestParseCommandPrintsNativeForm(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"parse", "+hello -world"})

	err := root.Execute()
	assert.NoError(t, err)
	assert.Equal(t, "+hello -world\n", out.String())
}

func TestTranslateCommandUsesRequestedDialect(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"translate", "--dialect", "sql", "--field", "color", "color=red"})

	err := root.Execute()
	assert.NoError(t, err)
	assert.Equal(t, "color = 'red'\n", out.String())
}

func TestParseCommandRequiresQueryWithoutServerFlag(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"parse"})
	err := root.Execute()
	assert.Error(t, err)
}
