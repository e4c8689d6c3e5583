package service

import (
	"context"
	"errors"
	"testing"

	repoMocks "studyhub/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
)

func TestEmailLookup_Exists(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		email      string
		setupMocks func(m *repoMocks.MockUserRepository)
		want       bool
		wantErr    error
	}{
		{
			name:  "normalizes before lookup",
			email: "  Eleve@Example.COM ",
			setupMocks: func(m *repoMocks.MockUserRepository) {
				m.On("ExistsByEmail", ctx, "eleve@example.com").Return(true, nil)
			},
			want: true,
		},
		{
			name:  "unknown address",
			email: "new@example.com",
			setupMocks: func(m *repoMocks.MockUserRepository) {
				m.On("ExistsByEmail", ctx, "new@example.com").Return(false, nil)
			},
		},
		{
			name:       "blank",
			email:      "   ",
			setupMocks: func(m *repoMocks.MockUserRepository) {},
			wantErr:    ErrEmailRequired,
		},
		{
			name:  "repository error",
			email: "a@b.c",
			setupMocks: func(m *repoMocks.MockUserRepository) {
				m.On("ExistsByEmail", ctx, "a@b.c").Return(false, errors.New("db down"))
			},
			wantErr: errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(repoMocks.MockUserRepository)
			tt.setupMocks(m)

			got, err := NewEmailLookup(m).Exists(ctx, tt.email)
			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrEmailRequired) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.EqualError(t, err, tt.wantErr.Error())
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			m.AssertExpectations(t)
		})
	}
}
