package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Abraxas-365/resumescan/internal/doctext/doctexttest"
	"github.com/Abraxas-365/resumescan/pkg/errx"
	"github.com/Abraxas-365/resumescan/recruitment/screening"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeResume(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resume.docx")
	require.NoError(t, os.WriteFile(path, doctexttest.DOCX(lines...), 0o600))
	return path
}

func TestRun_Table(t *testing.T) {
	resume := writeResume(t,
		"Age: 30",
		"Experience (Years): 5",
		"Education: Bachelor's",
	)

	var out bytes.Buffer
	err := run(context.Background(), options{
		resume: resume,
		roles:  []string{"Accountant", "Chemical Engineer"},
	}, &out)
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "Experience (Years)")
	assert.Contains(t, s, "Accountant")
	assert.Contains(t, s, "Suitable")
	assert.Contains(t, s, "100.00%")
}

func TestRun_JSONWithCoverLetter(t *testing.T) {
	resume := writeResume(t, "Education: Master's", "Experience (Years): 1")
	letter := filepath.Join(t.TempDir(), "letter.txt")
	require.NoError(t, os.WriteFile(letter, []byte("I love audits."), 0o600))

	var out bytes.Buffer
	err := run(context.Background(), options{
		resume:      resume,
		coverLetter: letter,
		roles:       []string{"Chemical Engineer"},
		asJSON:      true,
	}, &out)
	require.NoError(t, err)

	var got struct {
		CoverLetter string            `json:"cover_letter"`
		Method      string            `json:"method"`
		Results     screening.Results `json:"results"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "I love audits.", got.CoverLetter)
	assert.Equal(t, screening.MethodRules, got.Method)
	require.Len(t, got.Results, 1)
	assert.False(t, got.Results[0].Suitable)
}

func TestRun_WithModel(t *testing.T) {
	resume := writeResume(t, "Education: Bachelor's", "Experience (Years): 4")

	var out bytes.Buffer
	err := run(context.Background(), options{
		resume:    resume,
		roles:     []string{"Accountant"},
		modelPath: filepath.Join("..", "..", "models", "suitability.yaml"),
		asJSON:    true,
	}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"method": "model"`)
}

func TestRun_Errors(t *testing.T) {
	ctx := context.Background()

	err := run(ctx, options{resume: "missing.docx"}, &bytes.Buffer{})
	assert.True(t, errx.IsCode(err, screening.CodeNoRolesSelected))

	err = run(ctx, options{resume: filepath.Join(t.TempDir(), "missing.docx"), roles: []string{"Accountant"}}, &bytes.Buffer{})
	assert.ErrorIs(t, err, os.ErrNotExist)

	err = run(ctx, options{resume: "x.docx", roles: []string{"Accountant"}, modelPath: filepath.Join(t.TempDir(), "none.yaml")}, &bytes.Buffer{})
	assert.True(t, errx.IsCode(err, screening.CodeModelInvalid))
}
