package lint

import (
	"context"
	"errors"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gnolang/shapelint/internal/types"
)

type mockLintEngine struct {
	mock.Mock
}

func (m *mockLintEngine) Run(filePath string) ([]types.Issue, error) {
	args := m.Called(filePath)
	return args.Get(0).([]types.Issue), args.Error(1)
}

func (m *mockLintEngine) RunSource(source []byte) ([]types.Issue, error) {
	args := m.Called(source)
	return args.Get(0).([]types.Issue), args.Error(1)
}

func (m *mockLintEngine) IgnoreRule(rule string) {
	m.Called(rule)
}

func (m *mockLintEngine) IgnorePath(path string) {
	m.Called(path)
}

func issueAt(filename, rule string, offset int) types.Issue {
	return types.Issue{
		Rule:     rule,
		Filename: filename,
		Start:    token.Position{Filename: filename, Offset: offset, Line: 1, Column: offset + 1},
		End:      token.Position{Filename: filename, Offset: offset + 10, Line: 1, Column: offset + 11},
		Message:  "Test issue",
	}
}

func createTempFiles(t *testing.T, dir string, fileNames ...string) []string {
	t.Helper()
	paths := make([]string, 0, len(fileNames))
	for _, fileName := range fileNames {
		filePath := filepath.Join(dir, fileName)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte("package p\n"), 0o644))
		paths = append(paths, filePath)
	}
	return paths
}

func TestProcessFile(t *testing.T) {
	t.Parallel()

	expected := []types.Issue{issueAt("test.go", "test-rule", 0)}
	mockEngine := new(mockLintEngine)
	mockEngine.On("Run", "test.go").Return(expected, nil)

	issues, err := ProcessFile(mockEngine, "test.go")
	require.NoError(t, err)
	assert.Equal(t, expected, issues)
	mockEngine.AssertExpectations(t)
}

func TestProcessSource(t *testing.T) {
	t.Parallel()

	expected := []types.Issue{issueAt("", "test-rule", 0)}
	mockEngine := new(mockLintEngine)
	mockEngine.On("RunSource", []byte("package main")).Return(expected, nil)

	issues, err := ProcessSource(mockEngine, []byte("package main"))
	require.NoError(t, err)
	assert.Equal(t, expected, issues)
	mockEngine.AssertExpectations(t)
}

func TestProcessPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := createTempFiles(t, dir, "b.go", "a.gno", "notes.txt", filepath.Join(".git", "x.go"), filepath.Join("sub", "c.go"))

	mockEngine := new(mockLintEngine)
	mockEngine.On("Run", paths[0]).Return([]types.Issue{issueAt(paths[0], "rule1", 5), issueAt(paths[0], "rule1", 1)}, nil)
	mockEngine.On("Run", paths[1]).Return([]types.Issue{issueAt(paths[1], "rule2", 0)}, nil)
	mockEngine.On("Run", paths[4]).Return([]types.Issue{}, errors.New("broken file"))

	issues, err := ProcessPath(context.Background(), zaptest.NewLogger(t), mockEngine, dir, ProcessFile)
	require.NoError(t, err)
	require.Len(t, issues, 3)

	// ordered by file name, then offset
	assert.Equal(t, paths[1], issues[0].Filename)
	assert.Equal(t, paths[0], issues[1].Filename)
	assert.Equal(t, 1, issues[1].Start.Offset)
	assert.Equal(t, 5, issues[2].Start.Offset)

	mockEngine.AssertExpectations(t)
	mockEngine.AssertNotCalled(t, "Run", paths[2])
	mockEngine.AssertNotCalled(t, "Run", paths[3])
}

func TestProcessPathSingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := createTempFiles(t, dir, "a.go", "README.md")

	mockEngine := new(mockLintEngine)
	mockEngine.On("Run", paths[0]).Return([]types.Issue{issueAt(paths[0], "rule1", 0)}, nil)

	issues, err := ProcessPath(context.Background(), nil, mockEngine, paths[0], ProcessFile)
	require.NoError(t, err)
	assert.Len(t, issues, 1)

	issues, err = ProcessPath(context.Background(), nil, mockEngine, paths[1], ProcessFile)
	require.NoError(t, err)
	assert.Empty(t, issues)

	_, err = ProcessPath(context.Background(), nil, mockEngine, filepath.Join(dir, "missing"), ProcessFile)
	assert.Error(t, err)
}

func TestProcessPathCancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	createTempFiles(t, dir, "a.go", "b.go")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mockEngine := new(mockLintEngine)
	issues, err := ProcessPath(ctx, nil, mockEngine, dir, ProcessFile)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotNil(t, issues)
	mockEngine.AssertNotCalled(t, "Run", mock.Anything)
}

func TestProcessFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := createTempFiles(t, dir, "test1.go", "test2.go")
	expected := []types.Issue{issueAt(paths[0], "rule1", 0), issueAt(paths[1], "rule2", 0)}

	mockEngine := new(mockLintEngine)
	mockEngine.On("Run", paths[0]).Return([]types.Issue{expected[0]}, nil)
	mockEngine.On("Run", paths[1]).Return([]types.Issue{expected[1]}, nil)

	issues, err := ProcessFiles(context.Background(), zaptest.NewLogger(t), mockEngine, paths, ProcessFile)
	require.NoError(t, err)
	assert.Equal(t, expected, issues)
	mockEngine.AssertExpectations(t)

	_, err = ProcessFiles(context.Background(), zaptest.NewLogger(t), mockEngine, []string{filepath.Join(dir, "nope")}, ProcessFile)
	assert.Error(t, err)
}

func TestProcessSources(t *testing.T) {
	t.Parallel()

	expected := []types.Issue{issueAt("", "rule1", 0), issueAt("", "rule2", 0)}
	mockEngine := new(mockLintEngine)
	mockEngine.On("RunSource", []byte("package main1")).Return([]types.Issue{expected[0]}, nil)
	mockEngine.On("RunSource", []byte("package main2")).Return([]types.Issue{expected[1]}, nil)
	mockEngine.On("RunSource", []byte("package broken")).Return([]types.Issue{}, errors.New("parse error"))

	sources := [][]byte{[]byte("package main1"), []byte("package main2")}
	issues, err := ProcessSources(context.Background(), zaptest.NewLogger(t), mockEngine, sources, ProcessSource)
	require.NoError(t, err)
	assert.Equal(t, expected, issues)

	_, err = ProcessSources(context.Background(), zaptest.NewLogger(t), mockEngine, [][]byte{[]byte("package broken")}, ProcessSource)
	assert.Error(t, err)
	mockEngine.AssertExpectations(t)
}

func TestHasDesiredExtension(t *testing.T) {
	t.Parallel()
	assert.True(t, hasDesiredExtension("test.go"))
	assert.True(t, hasDesiredExtension("test.gno"))
	assert.False(t, hasDesiredExtension("test.txt"))
	assert.False(t, hasDesiredExtension("test"))
}
