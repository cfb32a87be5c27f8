package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"course-portal/internal/adapters/persistence/store"
	"course-portal/internal/config"
	"course-portal/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() RegisterInput {
	return RegisterInput{
		Name:               "Jane Smith",
		Email:              "Jane@Example.com ",
		Password:           "secret1",
		ConfirmPassword:    "secret1",
		Role:               domain.RoleStudent,
		RegistrationNumber: "REG002",
	}
}

func TestSessionService_Login(t *testing.T) {
	env := setup(t)

	t.Run("mock student", func(t *testing.T) {
		session, err := env.session.Login(env.ctx, LoginInput{Email: "student@example.com", Password: config.MockPassword})
		require.NoError(t, err)

		assert.Equal(t, "John Student", session.User.Name)
		assert.Equal(t, "REG001", session.User.RegistrationNumber)
		assert.Equal(t, fmt.Sprintf("access_1_%d", env.clock.now.UnixMilli()), session.AccessToken)
		assert.Equal(t, fmt.Sprintf("refresh_1_%d", env.clock.now.UnixMilli()), session.RefreshToken)
		assert.True(t, env.session.IsAuthenticated())
		assert.True(t, env.session.HasRole(domain.RoleStudent))
		assert.False(t, env.session.HasRole(domain.RoleFaculty))
		assert.True(t, env.session.HasAnyRole(domain.RoleFaculty, domain.RoleStudent))
		assert.False(t, env.session.Busy())
	})

	t.Run("session is persisted", func(t *testing.T) {
		var user domain.User
		found, err := env.store.Load(env.ctx, store.KeyUser, &user)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "student@example.com", user.Email)

		var token string
		found, err = env.store.Load(env.ctx, store.KeyAccessToken, &token)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, env.session.Current().AccessToken, token)
	})

	tests := []struct {
		name    string
		input   LoginInput
		wantErr error
		fields  []string
	}{
		{name: "wrong password", input: LoginInput{Email: "student@example.com", Password: "nope"}, wantErr: domain.ErrInvalidCredentials},
		{name: "unknown email", input: LoginInput{Email: "ghost@example.com", Password: config.MockPassword}, wantErr: domain.ErrInvalidCredentials},
		{name: "empty fields", input: LoginInput{}, fields: []string{"email", "password"}},
		{name: "malformed email", input: LoginInput{Email: "student", Password: "x"}, fields: []string{"email"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.session.Login(env.ctx, tt.input)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			for _, f := range tt.fields {
				assert.Contains(t, ve.Fields, f)
			}
		})
	}
}

func TestSessionService_Login_emailIsCaseInsensitive(t *testing.T) {
	env := setup(t)

	_, err := env.session.Login(env.ctx, LoginInput{Email: "  FACULTY@example.com", Password: config.MockPassword})
	require.NoError(t, err)
	assert.True(t, env.session.HasRole(domain.RoleFaculty))
	assert.Equal(t, "Computer Science", env.session.User().Department)
}

func TestSessionService_Register(t *testing.T) {
	env := setup(t)

	session, err := env.session.Register(env.ctx, validRegistration())
	require.NoError(t, err)

	assert.True(t, env.session.IsAuthenticated())
	assert.Equal(t, "jane@example.com", session.User.Email)
	assert.Equal(t, env.clock.now.UnixMilli(), session.User.ID)

	t.Run("registered user can log in", func(t *testing.T) {
		require.NoError(t, env.session.Logout(env.ctx))
		_, err := env.session.Login(env.ctx, LoginInput{Email: "jane@example.com", Password: "secret1"})
		require.NoError(t, err)
	})

	t.Run("registry stores a hash", func(t *testing.T) {
		var registry []domain.RegisteredUser
		_, err := env.store.Load(env.ctx, store.KeyRegisteredUsers, &registry)
		require.NoError(t, err)
		require.Len(t, registry, 3)
		assert.NotEqual(t, "secret1", registry[2].Password)
		assert.NotEmpty(t, registry[2].Password)
	})

	t.Run("duplicate email", func(t *testing.T) {
		input := validRegistration()
		input.Email = "student@example.com"
		_, err := env.session.Register(env.ctx, input)
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})

	t.Run("faculty gets default department", func(t *testing.T) {
		input := validRegistration()
		input.Email = "prof@example.com"
		input.Role = domain.RoleFaculty
		input.RegistrationNumber = ""

		session, err := env.session.Register(env.ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "Computer Science", session.User.Department)
		assert.Empty(t, session.User.RegistrationNumber)
	})
}

func TestSessionService_Register_validation(t *testing.T) {
	env := setup(t)

	tests := []struct {
		name   string
		modify func(in *RegisterInput)
		field  string
	}{
		{name: "missing name", modify: func(in *RegisterInput) { in.Name = "  " }, field: "name"},
		{name: "malformed email", modify: func(in *RegisterInput) { in.Email = "jane" }, field: "email"},
		{name: "short password", modify: func(in *RegisterInput) { in.Password, in.ConfirmPassword = "abc", "abc" }, field: "password"},
		{name: "mismatched confirmation", modify: func(in *RegisterInput) { in.ConfirmPassword = "secret2" }, field: "confirmPassword"},
		{name: "unknown role", modify: func(in *RegisterInput) { in.Role = "admin" }, field: "role"},
		{name: "student without registration number", modify: func(in *RegisterInput) { in.RegistrationNumber = "" }, field: "registrationNumber"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRegistration()
			tt.modify(&input)

			_, err := env.session.Register(env.ctx, input)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tt.field)
			assert.False(t, env.session.IsAuthenticated())
		})
	}
}

func TestSessionService_Logout(t *testing.T) {
	env := setup(t)

	_, err := env.session.Login(env.ctx, LoginInput{Email: "student@example.com", Password: config.MockPassword})
	require.NoError(t, err)

	require.NoError(t, env.session.Logout(env.ctx))
	assert.False(t, env.session.IsAuthenticated())
	assert.Nil(t, env.session.User())

	for _, key := range store.SessionKeys {
		has, err := env.store.Has(env.ctx, key)
		require.NoError(t, err)
		assert.False(t, has, key)
	}

	// idempotent
	require.NoError(t, env.session.Logout(env.ctx))
}

func TestSessionService_RefreshAccessToken(t *testing.T) {
	env := setup(t)

	t.Run("no refresh token logs out", func(t *testing.T) {
		_, err := env.session.RefreshAccessToken(env.ctx)
		assert.ErrorIs(t, err, domain.ErrNoRefreshToken)
		assert.False(t, env.session.IsAuthenticated())
	})

	session, err := env.session.Login(env.ctx, LoginInput{Email: "student@example.com", Password: config.MockPassword})
	require.NoError(t, err)

	env.clock.Advance(time.Minute)
	token, err := env.session.RefreshAccessToken(env.ctx)
	require.NoError(t, err)

	assert.NotEqual(t, session.AccessToken, token)
	assert.Equal(t, fmt.Sprintf("access_1_%d", env.clock.now.UnixMilli()), token)
	assert.Equal(t, session.RefreshToken, env.session.Current().RefreshToken)

	var stored string
	_, err = env.store.Load(env.ctx, store.KeyAccessToken, &stored)
	require.NoError(t, err)
	assert.Equal(t, token, stored)
}

func TestSessionService_Init(t *testing.T) {
	t.Run("restores a persisted session", func(t *testing.T) {
		env := setup(t)
		_, err := env.session.Login(env.ctx, LoginInput{Email: "faculty@example.com", Password: config.MockPassword})
		require.NoError(t, err)

		restarted := NewSessionService(env.store, env.session.validator, env.session.ids, testConfig())
		require.NoError(t, restarted.Init(env.ctx))
		assert.True(t, restarted.IsAuthenticated())
		assert.Equal(t, "Dr. Smith", restarted.User().Name)
	})

	t.Run("nothing persisted", func(t *testing.T) {
		env := setup(t)
		require.NoError(t, env.session.Init(env.ctx))
		assert.False(t, env.session.IsAuthenticated())
	})

	for _, key := range store.SessionKeys {
		t.Run("malformed "+key, func(t *testing.T) {
			env := setup(t)
			_, err := env.session.Login(env.ctx, LoginInput{Email: "student@example.com", Password: config.MockPassword})
			require.NoError(t, err)
			require.NoError(t, env.store.SetRaw(env.ctx, key, "{broken"))

			restarted := NewSessionService(env.store, env.session.validator, env.session.ids, testConfig())
			require.NoError(t, restarted.Init(env.ctx))
			assert.False(t, restarted.IsAuthenticated())

			for _, k := range store.SessionKeys {
				has, err := env.store.Has(env.ctx, k)
				require.NoError(t, err)
				assert.False(t, has, k)
			}
		})
	}
}

func TestSessionService_Dispose(t *testing.T) {
	env := setup(t)
	_, err := env.session.Login(env.ctx, LoginInput{Email: "student@example.com", Password: config.MockPassword})
	require.NoError(t, err)

	env.session.Dispose()
	assert.False(t, env.session.IsAuthenticated())

	has, err := env.store.Has(env.ctx, store.KeyUser)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestSessionService_concurrentLogins(t *testing.T) {
	env := setup(t)

	var wg sync.WaitGroup
	for _, email := range []string{"student@example.com", "faculty@example.com"} {
		wg.Add(1)
		go func(email string) {
			defer wg.Done()
			_, _ = env.session.Login(env.ctx, LoginInput{Email: email, Password: config.MockPassword})
		}(email)
	}
	wg.Wait()

	// last writer wins; the session must be one of the two, intact
	current := env.session.Current()
	require.True(t, current.Authenticated())
	assert.Contains(t, []string{"student@example.com", "faculty@example.com"}, current.User.Email)
	assert.Contains(t, current.AccessToken, fmt.Sprintf("access_%d_", current.User.ID))
	assert.False(t, env.session.Busy())
}

func TestSessionService_Lookup(t *testing.T) {
	env := setup(t)

	user, err := env.session.Lookup(env.ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "faculty@example.com", user.Email)

	_, err = env.session.Lookup(env.ctx, 99)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
