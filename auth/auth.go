// Copyright 2025 The backstream Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package auth

import (
	"log/slog"

	"github.com/backstream-dev/backstream"
	"github.com/backstream-dev/backstream/internal/metrics"
	"github.com/backstream-dev/backstream/stream"
)

// Auth converts the vendor's authentication callbacks into streams.
type Auth struct {
	client  Client
	log     *slog.Logger
	metrics *metrics.Metrics
}

// New creates an auth adapter around the vendor client.
//
// A list of Option arguments can be passed to configure the adapter.
func New(client Client, opts ...backstream.Option) (*Auth, error) {
	options, err := backstream.NewOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Auth{
		client: client,
		log: slog.With(
			slog.String("component", "backstream-auth"),
			slog.String("identity", options.Identity()),
		),
		metrics: metrics.NewMetrics(options.MeterProvider()),
	}, nil
}

// SignIn authenticates with email and password. The stream emits the
// signed-in user and completes, or fails with the vendor's error.
func (a *Auth) SignIn(email, password string) stream.Stream[User] {
	return a.signIn("sign_in", func(callback func(User, error)) {
		a.client.SignIn(email, password, callback)
	})
}

// SignInAnonymously creates or resumes an anonymous session.
func (a *Auth) SignInAnonymously() stream.Stream[User] {
	return a.signIn("sign_in_anonymously", func(callback func(User, error)) {
		a.client.SignInAnonymously(callback)
	})
}

// SignInWithCustomToken authenticates with a server-minted token.
func (a *Auth) SignInWithCustomToken(token string) stream.Stream[User] {
	return a.signIn("sign_in_custom_token", func(callback func(User, error)) {
		a.client.SignInWithCustomToken(token, callback)
	})
}

// CreateUser registers a new email/password account and signs it in.
func (a *Auth) CreateUser(email, password string) stream.Stream[User] {
	return a.signIn("create_user", func(callback func(User, error)) {
		a.client.CreateUser(email, password, callback)
	})
}

func (a *Auth) signIn(op string, start func(callback func(User, error))) stream.Stream[User] {
	return stream.Single(func(callback func(User, error)) {
		a.metrics.Subscribed(op)
		a.log.Debug("Starting auth operation", slog.String("op", op))
		start(metrics.DecorateCallback(a.metrics, op, callback))
	})
}

// SendPasswordReset sends a password-reset email. The stream emits a
// single empty value and completes.
func (a *Auth) SendPasswordReset(email string) stream.Stream[struct{}] {
	return a.fireAndForget("send_password_reset", func(callback func(error)) {
		a.client.SendPasswordReset(email, callback)
	})
}

// SignOut ends the current session.
func (a *Auth) SignOut() stream.Stream[struct{}] {
	return a.fireAndForget("sign_out", func(callback func(error)) {
		a.client.SignOut(callback)
	})
}

func (a *Auth) fireAndForget(op string, start func(callback func(error))) stream.Stream[struct{}] {
	return stream.Single(func(callback func(struct{}, error)) {
		a.metrics.Subscribed(op)
		decorated := metrics.DecorateCallback(a.metrics, op, callback)
		start(func(err error) {
			decorated(struct{}{}, err)
		})
	})
}

// StateChanges forwards every auth-state transition as an emission. A
// nil user means signed out. The stream never completes on its own;
// unsubscribing removes the vendor listener.
func (a *Auth) StateChanges() stream.Stream[User] {
	const op = "state_changes"
	return stream.Listen(func(onEvent func(User), _ func(error)) Handle {
		a.metrics.Subscribed(op)
		a.log.Debug("Registering auth-state listener")
		return a.client.AddStateListener(func(user User) {
			a.metrics.Emitted(op)
			onEvent(user)
		})
	}, func(handle Handle) {
		a.metrics.CleanedUp(op)
		a.log.Debug("Removing auth-state listener")
		a.client.RemoveStateListener(handle)
	})
}

// IDToken retrieves user's identity token, optionally forcing a
// refresh.
func (a *Auth) IDToken(user User, forceRefresh bool) stream.Stream[string] {
	const op = "id_token"
	return stream.Single(func(callback func(string, error)) {
		a.metrics.Subscribed(op)
		user.IDToken(forceRefresh, metrics.DecorateCallback(a.metrics, op, callback))
	})
}
