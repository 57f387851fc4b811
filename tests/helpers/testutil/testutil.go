// Package testutil provides testing utilities and helpers for backend tests.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/mosaicui/mosaic/backend/internal/domain/component"
	"github.com/mosaicui/mosaic/backend/internal/domain/meta"
	"github.com/mosaicui/mosaic/backend/internal/domain/property"
	"github.com/mosaicui/mosaic/backend/internal/infrastructure/logging"
	"github.com/mosaicui/mosaic/backend/internal/shared/types"
)

// MockServiceProvider is a mock implementation of service.Provider for testing.
type MockServiceProvider struct {
	mock.Mock
}

// Definition mocks the Definition method.
func (m *MockServiceProvider) Definition() types.Service {
	args := m.Called()
	return args.Get(0).(types.Service)
}

// Execute mocks the Execute method.
func (m *MockServiceProvider) Execute(ctx context.Context, toolID string, params map[string]interface{}, opCtx *types.Context) (*types.Result, error) {
	args := m.Called(ctx, toolID, params, opCtx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Result), args.Error(1)
}

// NewMockServiceProvider creates a new mock service provider with default behaviors.
func NewMockServiceProvider(t *testing.T, serviceID string) *MockServiceProvider {
	t.Helper()
	m := new(MockServiceProvider)

	m.On("Definition").Return(types.Service{
		ID:          serviceID,
		Name:        "Mock Service",
		Description: "Mock service for testing",
		Category:    types.CategoryUI,
		Tools:       []types.Tool{},
	}).Maybe()

	return m
}

// NewTestTree builds a tree with the fixture hierarchy most tests share:
//
//	Root (CanvasPanel)
//	├── Title   (Text)
//	├── Submit  (Button)
//	├── Sidebar (BoxPanel)
//	│   └── Logo (Image)
//	└── Grid    (GridPanel)
//	    └── Cell (ProgressBar)
func NewTestTree(t *testing.T) *component.Tree {
	t.Helper()

	tree := component.NewTree(meta.Builtin(), logging.NewNop())
	mustInsert(t, tree, "Root", "Text", "Title")
	mustInsert(t, tree, "Root", "Button", "Submit")
	mustInsert(t, tree, "Root", "BoxPanel", "Sidebar")
	mustInsert(t, tree, "Sidebar", "Image", "Logo")
	mustInsert(t, tree, "Root", "GridPanel", "Grid")
	mustInsert(t, tree, "Grid", "ProgressBar", "Cell")
	return tree
}

func mustInsert(t *testing.T, tree *component.Tree, parent, typeName, name string) *component.Component {
	t.Helper()
	c, err := tree.Insert(parent, typeName, name)
	if err != nil {
		t.Fatalf("insert %s %q under %q: %v", typeName, name, parent, err)
	}
	return c
}

// NewTestEngine returns an engine over the builtin catalog.
func NewTestEngine(t *testing.T) *property.Engine {
	t.Helper()
	return property.NewEngine(meta.Builtin())
}

// AssertSuccess is a helper to assert a successful result.
func AssertSuccess(t *testing.T, result *types.Result) {
	t.Helper()
	if result == nil {
		t.Fatal("Result is nil")
	}
	if !result.Success {
		t.Fatalf("Expected success, got error: %v", result.Error)
	}
}

// AssertError is a helper to assert an error result.
func AssertError(t *testing.T, result *types.Result) {
	t.Helper()
	if result == nil {
		t.Fatal("Result is nil")
	}
	if result.Success {
		t.Fatal("Expected error, got success")
	}
	if result.Error == nil {
		t.Fatal("Expected error message, got nil")
	}
}

// AssertErrorKind asserts a failed result carrying the given engine error kind.
func AssertErrorKind(t *testing.T, result *types.Result, kind property.ErrKind) {
	t.Helper()
	AssertError(t, result)
	if result.Data == nil {
		t.Fatalf("Expected error_kind %q, got no data", kind)
	}
	actual, _ := result.Data["error_kind"].(string)
	if actual != string(kind) {
		t.Fatalf("Expected error_kind %q, got %q (message: %v)", kind, actual, *result.Error)
	}
}

// AssertDataField is a helper to assert a data field exists and matches expected value.
func AssertDataField(t *testing.T, result *types.Result, field string, expected interface{}) {
	t.Helper()
	AssertSuccess(t, result)

	if result.Data == nil {
		t.Fatal("Result data is nil")
	}

	actual, ok := result.Data[field]
	if !ok {
		t.Fatalf("Field %s not found in result data", field)
	}

	if actual != expected {
		t.Fatalf("Field %s: expected %v, got %v", field, expected, actual)
	}
}
