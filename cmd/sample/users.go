package main

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/bjaus/autosig"
	"github.com/bjaus/autosig/sigfile"
)

//go:embed signatures/paging.yaml
var pagingYAML []byte

var errNotFound = errors.New("user not found")

// User is the core domain entity.
type User struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Role  string `json:"role" yaml:"role"`
}

type userStore struct {
	mu     sync.RWMutex
	users  map[string]User
	nextID int
}

func newUserStore() *userStore {
	return &userStore{
		users: map[string]User{
			"1": {ID: "1", Name: "Alice", Email: "alice@example.com", Role: "admin"},
			"2": {ID: "2", Name: "Bob", Email: "bob@example.com", Role: "member"},
			"3": {ID: "3", Name: "Carol", Email: "carol@example.com", Role: "member"},
		},
		nextID: 4,
	}
}

// list returns the users with role (any role when empty) sorted by name.
func (s *userStore) list(role string, offset, limit int, order string) []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		if role != "" && u.Role != role {
			continue
		}
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b User) int { return strings.Compare(a.Name, b.Name) })
	if order == "desc" {
		slices.Reverse(out)
	}

	if offset >= len(out) {
		return []User{}
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out
}

func (s *userStore) get(id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return User{}, fmt.Errorf("%w: %s", errNotFound, id)
	}
	return u, nil
}

type createUserArgs struct {
	Name  string `arg:"name" doc:"display name"`
	Email string `arg:"email" doc:"email address"`
	Role  string `arg:"role" default:"member" doc:"user role"`
}

func (s *userStore) create(args createUserArgs) User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := User{
		ID:    fmt.Sprint(s.nextID),
		Name:  args.Name,
		Email: args.Email,
		Role:  args.Role,
	}
	s.nextID++
	s.users[u.ID] = u
	return u
}

// signatures shared by the demo functions.
var (
	roles = autosig.MustSignature(
		autosig.Arg("role", autosig.NewParam(
			autosig.WithDefault(""),
			autosig.WithValidator(autosig.MustCheck([]string{"", "admin", "member"})),
			autosig.WithDoc("filter by role (admin, member)"),
		)),
	)

	sorting = autosig.MustSignature(
		autosig.Arg("order", autosig.NewParam(
			autosig.WithDefault("asc"),
			autosig.WithValidator(autosig.OneOf("asc", "desc")),
			autosig.WithDoc("sort direction by name"),
			autosig.WithKWOnly(),
		)),
	)

	nonEmpty = autosig.Predicate("non-empty", func(v any) bool {
		s, ok := v.(string)
		return ok && strings.TrimSpace(s) != ""
	})
)

// functions binds the demo functions against store.
func functions(store *userStore, logger *slog.Logger) (map[string]*autosig.Func, error) {
	paging, err := sigfile.ParseYAML(pagingYAML)
	if err != nil {
		return nil, err
	}

	listSig, err := autosig.MustCombine(roles, paging).Add(sorting)
	if err != nil {
		return nil, err
	}
	listSig = listSig.WithReturn(autosig.NewRetval(autosig.WithDoc("the matching users")))

	list, err := autosig.Bind(listSig, store.list,
		autosig.WithNames("role", "offset", "limit", "order"),
		autosig.WithSummary("List users, with optional filtering by role."),
		autosig.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	get, err := autosig.Declare(store.get, []autosig.Entry{
		autosig.Arg("id", autosig.NewParam(
			autosig.WithConverter(autosig.ToString),
			autosig.WithValidator(nonEmpty),
			autosig.WithDoc("user ID"),
		)),
	}, autosig.WithSummary("Get a user by ID."), autosig.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	createSig := autosig.MustSignature(
		autosig.Arg("name", autosig.NewParam(autosig.WithValidator(nonEmpty))),
		autosig.Arg("email", autosig.NewParam(autosig.WithValidator(autosig.MustSchema(`{"type":"string","format":"email"}`)))),
		autosig.Arg("role", autosig.NewParam(autosig.WithValidator(autosig.OneOf("admin", "member")))),
	)
	create, err := autosig.Bind(createSig, store.create,
		autosig.WithSummary("Create a user."),
		autosig.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return map[string]*autosig.Func{
		"list":   list,
		"get":    get,
		"create": create,
	}, nil
}
