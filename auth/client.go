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

// Package auth adapts the vendor SDK's authentication callbacks into
// streams. Sign-in calls are single-shot; the auth-state feed is an
// unbounded listener stream.
package auth

// Handle identifies a registered auth-state listener inside the vendor
// SDK.
type Handle uint64

// User is the vendor's representation of an authenticated user.
type User interface {
	// UID is the vendor-assigned stable user identifier.
	UID() string

	// Email is the user's email address, empty for anonymous users.
	Email() string

	// IsAnonymous reports whether the user signed in anonymously.
	IsAnonymous() bool

	// IDToken asynchronously retrieves the user's identity token,
	// optionally forcing a refresh.
	IDToken(forceRefresh bool, callback func(token string, err error))
}

// Client is the slice of the vendor SDK's auth surface the adapters
// rely on.
type Client interface {
	// SignIn authenticates with email and password and calls back once
	// with the signed-in user or an error.
	SignIn(email, password string, callback func(user User, err error))

	// SignInAnonymously creates or resumes an anonymous session.
	SignInAnonymously(callback func(user User, err error))

	// SignInWithCustomToken authenticates with a server-minted token.
	SignInWithCustomToken(token string, callback func(user User, err error))

	// CreateUser registers a new email/password account and signs it in.
	CreateUser(email, password string, callback func(user User, err error))

	// SendPasswordReset sends a password-reset email.
	SendPasswordReset(email string, callback func(err error))

	// SignOut ends the current session.
	SignOut(callback func(err error))

	// AddStateListener registers a listener invoked on every auth-state
	// transition. The listener receives nil when the user signs out.
	AddStateListener(onChange func(user User)) Handle

	// RemoveStateListener de-registers a state listener.
	RemoveStateListener(handle Handle)
}
