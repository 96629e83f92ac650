package team

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, exists, err := Load(filepath.Join(t.TempDir(), DefaultConfigFile))
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialExpertiseMergesPerCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"expertise": {"frontend": ["alice"]}}`), 0o644))

	cfg, exists, err := Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, []string{"alice"}, cfg.Expertise[CategoryFrontend])
	assert.Equal(t, []string{"backend-lead"}, cfg.Expertise[CategoryBackend], "other categories keep defaults")
	assert.Equal(t, []string{"tech-lead"}, cfg.Expertise[CategoryGeneral])
	assert.Equal(t, "on-call-primary", cfg.OnCall.Primary)
}

func TestLoad_OnCallSlotsOverrideIndividually(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"on_call": {"primary": "bob"}}`), 0o644))

	cfg, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bob", cfg.OnCall.Primary)
	assert.Equal(t, "on-call-secondary", cfg.OnCall.Secondary)
}

func TestLoad_ExplicitEmptySecondaryDisablesSlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"on_call": {"secondary": ""}}`), 0o644))

	cfg, _, err := Load(path)
	require.NoError(t, err)
	rec := Suggest(cfg, "a/b", "CI", "")
	for _, s := range rec.NotificationSuggestions {
		assert.NotEqual(t, TypeOnCallSecondary, s.Type)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team.yaml")
	doc := `
repositories:
  acme/web:
    - carol
    - dave
expertise:
  security:
    - erin
on_call:
  primary: frank
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, exists, err := Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, []string{"carol", "dave"}, cfg.Repositories["acme/web"])
	assert.Equal(t, []string{"erin"}, cfg.Expertise[CategorySecurity])
	assert.Equal(t, "frank", cfg.OnCall.Primary)
	assert.Equal(t, "on-call-secondary", cfg.OnCall.Secondary)
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"expertise": [`), 0o644))

	_, exists, err := Load(path)
	assert.Error(t, err)
	assert.True(t, exists)
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))

	cfg, exists, err := Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, Default(), cfg)
}

func TestParse_UnknownFormat(t *testing.T) {
	_, err := Parse([]byte(`{}`), "toml")
	assert.Error(t, err)
}

func TestSuggest_OrderAndReasons(t *testing.T) {
	cfg := Default()
	cfg.Repositories["acme/api"] = []string{"owner1", "owner2"}

	rec := Suggest(cfg, "acme/api", "Backend Tests", CategoryBackend)

	assert.Equal(t, []Suggestion{
		{Type: TypeRepositoryOwner, Person: "owner1", Reason: "Repository owner for acme/api"},
		{Type: TypeRepositoryOwner, Person: "owner2", Reason: "Repository owner for acme/api"},
		{Type: TypeExpertise, Person: "backend-lead", Reason: "Expert in backend issues"},
		{Type: TypeOnCallPrimary, Person: "on-call-primary", Reason: "Primary on-call engineer"},
		{Type: TypeOnCallSecondary, Person: "on-call-secondary", Reason: "Secondary on-call engineer"},
	}, rec.NotificationSuggestions)
	assert.Equal(t, []string{"QA team should be notified for test failures"}, rec.WorkflowSpecificNotes)
}

func TestSuggest_DefaultCategory(t *testing.T) {
	rec := Suggest(Default(), "x/y", "Build", "")
	assert.Equal(t, CategoryGeneral, rec.FailureType)
	require.NotEmpty(t, rec.NotificationSuggestions)
	assert.Equal(t, "tech-lead", rec.NotificationSuggestions[0].Person)
	assert.Empty(t, rec.WorkflowSpecificNotes)
	assert.NotNil(t, rec.WorkflowSpecificNotes)
}

func TestSuggest_UnknownCategoryOnlyOnCall(t *testing.T) {
	rec := Suggest(Default(), "x/y", "Build", "database")
	require.Len(t, rec.NotificationSuggestions, 2)
	assert.Equal(t, TypeOnCallPrimary, rec.NotificationSuggestions[0].Type)
}

func TestSuggest_WorkflowNotesFirstMatchOnly(t *testing.T) {
	tests := []struct {
		workflow string
		want     []string
	}{
		{"Unit TESTS", []string{"QA team should be notified for test failures"}},
		{"Deploy to prod", []string{"DevOps team should be notified for deployment failures"}},
		{"Security Scan", []string{"Security team should be notified for security check failures"}},
		{"test and deploy", []string{"QA team should be notified for test failures"}},
		{"lint", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.workflow, func(t *testing.T) {
			rec := Suggest(Default(), "x/y", tt.workflow, "")
			assert.Equal(t, tt.want, rec.WorkflowSpecificNotes)
		})
	}
}
