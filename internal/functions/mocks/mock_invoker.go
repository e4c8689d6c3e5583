package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockInvoker struct {
	mock.Mock
}

func (m *MockInvoker) Invoke(ctx context.Context, name string, body any, out any) error {
	args := m.Called(ctx, name, body, out)
	return args.Error(0)
}
