package console

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"greenhood/config"
	"greenhood/internal/delivery/ui"
	domainerrors "greenhood/internal/domain/errors"
	"greenhood/internal/domain/entity"
	"greenhood/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

type keyLocalizer struct{}

func (keyLocalizer) Get(key string, args ...any) string {
	if len(args) == 0 {
		return key
	}

	return key + " " + fmt.Sprint(args...)
}

type mockAccounts struct {
	mock.Mock
	usecase.AccountUsecase
}

func (m *mockAccounts) Authenticate(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthSession, error) {
	args := m.Called(ctx, input)
	session, _ := args.Get(0).(*usecase.AuthSession)

	return session, args.Error(1)
}

func (m *mockAccounts) ResolveToken(ctx context.Context, token string) (*entity.Actor, error) {
	args := m.Called(ctx, token)
	actor, _ := args.Get(0).(*entity.Actor)

	return actor, args.Error(1)
}

func (m *mockAccounts) Logout(ctx context.Context) {
	m.Called(ctx)
}

type mockDisposals struct {
	mock.Mock
	usecase.DisposalUsecase
}

func (m *mockDisposals) Discard(ctx context.Context, input *usecase.DiscardInput) (*entity.DisposalItem, error) {
	args := m.Called(ctx, input)
	item, _ := args.Get(0).(*entity.DisposalItem)

	return item, args.Error(1)
}

func (m *mockDisposals) Reserve(ctx context.Context, taxID string, itemID int64) (*entity.Reservation, error) {
	args := m.Called(ctx, taxID, itemID)
	reservation, _ := args.Get(0).(*entity.Reservation)

	return reservation, args.Error(1)
}

type mockDashboard struct {
	mock.Mock
	usecase.DashboardUsecase
}

func (m *mockDashboard) TopIndividuals(ctx context.Context, limit int) ([]entity.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	entries, _ := args.Get(0).([]entity.LeaderboardEntry)

	return entries, args.Error(1)
}

func (m *mockDashboard) IndividualStats(ctx context.Context, nationalID string, statsRange entity.StatsRange) (*entity.IndividualStats, error) {
	args := m.Called(ctx, nationalID, statsRange)
	stats, _ := args.Get(0).(*entity.IndividualStats)

	return stats, args.Error(1)
}

func (m *mockDashboard) AvailableItems(ctx context.Context, filter entity.AvailableFilter, taxID string) ([]entity.DisposalRecord, error) {
	args := m.Called(ctx, filter, taxID)
	records, _ := args.Get(0).([]entity.DisposalRecord)

	return records, args.Error(1)
}

type mockAddresses struct {
	mock.Mock
	usecase.AddressUsecase
}

func (m *mockAddresses) Districts(ctx context.Context, provinceID int64) ([]entity.LocalityOption, error) {
	args := m.Called(ctx, provinceID)
	options, _ := args.Get(0).([]entity.LocalityOption)

	return options, args.Error(1)
}

type fakeShutdowner struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *fakeShutdowner) Shutdown(...fx.ShutdownOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++

	return s.err
}

func (s *fakeShutdowner) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls
}

type fakePool struct {
	calls int
	err   error
}

func (p *fakePool) Shutdown() error {
	p.calls++

	return p.err
}

type consoleHarness struct {
	console    *Console
	accounts   *mockAccounts
	disposals  *mockDisposals
	dashboard  *mockDashboard
	addresses  *mockAddresses
	shutdowner *fakeShutdowner
	loop       *ui.EventLoop

	mu  sync.Mutex
	out bytes.Buffer
}

func (h *consoleHarness) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.out.Write(p)
}

// run executes line, waits for its task and for every message it posted.
func (h *consoleHarness) run(t *testing.T, line string) string {
	t.Helper()

	h.mu.Lock()
	h.out.Reset()
	h.mu.Unlock()

	h.console.Execute(context.Background(), line)
	h.console.runner.Wait()

	flushed := make(chan struct{})
	h.loop.Post(func() { close(flushed) })
	select {
	case <-flushed:
	case <-time.After(time.Second):
		t.Fatal("event loop did not drain")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.out.String()
}

func newHarness(t *testing.T, in io.Reader) *consoleHarness {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := &consoleHarness{
		accounts:   &mockAccounts{},
		disposals:  &mockDisposals{},
		dashboard:  &mockDashboard{},
		addresses:  &mockAddresses{},
		shutdowner: &fakeShutdowner{},
		loop:       ui.NewStandaloneEventLoop(logger),
	}
	h.loop.Start()
	t.Cleanup(h.loop.Stop)

	term := NewTerminalFor(h)
	presenter := &presenter{term: term, provider: &fakePool{}, exit: func(int) {}, logger: logger}
	runner := ui.NewStandaloneRunner(h.loop, presenter, keyLocalizer{}, logger)

	h.console = newConsole(ConsoleParams{
		Config:     &config.Config{Console: &config.ConsoleConfig{Enabled: true, Prompt: "> "}},
		Runner:     runner,
		Accounts:   h.accounts,
		Disposals:  h.disposals,
		Addresses:  h.addresses,
		Dashboard:  h.dashboard,
		Localizer:  keyLocalizer{},
		Terminal:   term,
		Shutdowner: h.shutdowner,
		Logger:     logger,
	}, in)

	return h
}

func (h *consoleHarness) login(t *testing.T, actor entity.Actor) {
	t.Helper()

	h.accounts.On("Authenticate", mock.Anything, &usecase.LoginInput{
		Kind: actor.Kind, Identifier: actor.Identifier, Password: "Secret12",
	}).Return(&usecase.AuthSession{Token: "token-" + actor.Identifier, Actor: actor}, nil).Once()
	h.accounts.On("ResolveToken", mock.Anything, "token-"+actor.Identifier).Return(&actor, nil)

	out := h.run(t, fmt.Sprintf("login %s %s Secret12", actor.Kind, actor.Identifier))
	require.Equal(t, "loginsuccess "+actor.DisplayName+"\n", out)
}

var (
	ayse = entity.Actor{Kind: entity.ActorIndividual, ID: 1, Identifier: "11111111111", DisplayName: "Ayşe Yılmaz"}
	acme = entity.Actor{Kind: entity.ActorOrganization, ID: 7, Identifier: "1234567890", DisplayName: "Acme"}
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    []string
		wantErr bool
	}{
		{name: "blank", line: "   ", want: []string{}},
		{name: "words", line: "feed  discards\t--limit 5", want: []string{"feed", "discards", "--limit", "5"}},
		{name: "quoted run", line: `update individual --first "Ayşe Nur" --street 'Atatürk Cd.'`, want: []string{"update", "individual", "--first", "Ayşe Nur", "--street", "Atatürk Cd."}},
		{name: "escaped quote", line: `password change "Old\"Pass1" New\"Pass2`, want: []string{"password", "change", `Old"Pass1`, `New"Pass2`}},
		{name: "unterminated", line: `login individual "123`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := splitLine(tt.line)
			if tt.wantErr {
				require.Error(t, err)

				return
			}
			require.NoError(t, err)
			if len(tt.want) == 0 {
				assert.Empty(t, got)

				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConsole_PasswordWithEmbeddedQuote(t *testing.T) {
	h := newHarness(t, strings.NewReader(""))
	h.accounts.On("Authenticate", mock.Anything, &usecase.LoginInput{
		Kind: entity.ActorIndividual, Identifier: ayse.Identifier, Password: `Se"cret12`,
	}).Return(&usecase.AuthSession{Token: "token", Actor: ayse}, nil).Once()

	assert.Equal(t, "loginsuccess "+ayse.DisplayName+"\n", h.run(t, `login individual 11111111111 "Se\"cret12"`))
	h.accounts.AssertExpectations(t)
}

func TestConsole_CommandsRequireLogin(t *testing.T) {
	h := newHarness(t, strings.NewReader(""))

	assert.Equal(t, "! notloggedin\n", h.run(t, "stats"))
	assert.Equal(t, "! notloggedin\n", h.run(t, "discard --type 1 --weight 2 --volume 1"))
	h.disposals.AssertNotCalled(t, "Discard", mock.Anything, mock.Anything)
}

func TestConsole_LoginThenStats(t *testing.T) {
	h := newHarness(t, strings.NewReader(""))
	h.login(t, ayse)

	h.dashboard.On("IndividualStats", mock.Anything, ayse.Identifier, entity.RangeLastMonth).
		Return(&entity.IndividualStats{TotalCount: 3, TotalWeight: 12.5, RecycledCount: 1}, nil).Once()

	out := h.run(t, "stats --range month")
	assert.Contains(t, out, "ITEMS")
	assert.Contains(t, out, "12.50")
	h.dashboard.AssertExpectations(t)
}

func TestConsole_UnknownStatsRange(t *testing.T) {
	h := newHarness(t, strings.NewReader(""))

	assert.Equal(t, "! invalidinput decade\n", h.run(t, "stats --range decade"))
}

func TestConsole_WrongActorKindIsForbidden(t *testing.T) {
	h := newHarness(t, strings.NewReader(""))
	h.login(t, acme)

	assert.Equal(t, "! forbiddenaction\n", h.run(t, "discard --type 1 --weight 2 --volume 1"))
	assert.Equal(t, "! forbiddenaction\n", h.run(t, "history"))
}

func TestConsole_DiscardUsesLoggedInIndividual(t *testing.T) {
	h := newHarness(t, strings.NewReader(""))
	h.login(t, ayse)

	h.disposals.On("Discard", mock.Anything, &usecase.DiscardInput{IndividualID: ayse.ID, TypeID: 2, Weight: 3.5, Volume: 1}).
		Return(&entity.DisposalItem{ID: 42}, nil).Once()

	assert.Equal(t, "itemdiscarded 42\n", h.run(t, "discard --type 2 --weight 3.5 --volume 1"))
	h.disposals.AssertExpectations(t)
}

func TestConsole_ReserveRejectsBadItemID(t *testing.T) {
	h := newHarness(t, strings.NewReader(""))
	h.login(t, acme)

	assert.Equal(t, "! invalidinput x\n", h.run(t, "reserve x"))
	h.disposals.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything)
}

func TestConsole_ReserveFailureIsShown(t *testing.T) {
	h := newHarness(t, strings.NewReader(""))
	h.login(t, acme)

	h.disposals.On("Reserve", mock.Anything, acme.Identifier, int64(9)).
		Return(nil, domainerrors.NewValidationFailure(domainerrors.KeyReservationFailed)).Once()

	assert.Equal(t, "! reservationfailed\n", h.run(t, "reserve 9"))
}

func TestConsole_AvailableOnlyAllowedUsesOrganization(t *testing.T) {
	h := newHarness(t, strings.NewReader(""))
	h.login(t, acme)

	h.dashboard.On("AvailableItems", mock.Anything, mock.MatchedBy(func(f entity.AvailableFilter) bool {
		return f.OnlyAllowed && f.MinWeight != nil && *f.MinWeight == 2 && f.MaxWeight == nil &&
			assert.ObjectsAreEqual([]string{"Paper", "Glass"}, f.TypeNames)
	}), acme.Identifier).Return(nil, nil).Once()

	assert.Equal(t, "emptylist\n", h.run(t, "available --only-allowed --min-weight 2 --type Paper,Glass"))
	h.dashboard.AssertExpectations(t)
}

func TestConsole_AvailableRejectsBadDate(t *testing.T) {
	h := newHarness(t, strings.NewReader(""))

	assert.Equal(t, "! invalidinput 2024-13-01\n", h.run(t, "available --from 2024-13-01"))
}

func TestConsole_LeaderboardIsPublic(t *testing.T) {
	h := newHarness(t, strings.NewReader(""))

	h.dashboard.On("TopIndividuals", mock.Anything, 3).Return([]entity.LeaderboardEntry{
		{Identifier: "22222222222", Name: "Mehmet Kaya", Score: 24},
		{Identifier: "11111111111", Name: "Ayşe Yılmaz", Score: 20},
	}, nil).Once()

	out := h.run(t, "leaderboard individuals --limit 3")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Mehmet Kaya")
	assert.Contains(t, lines[1], "24.00")
	assert.Contains(t, lines[2], "Ayşe Yılmaz")
}

func TestConsole_LocalitiesParseParentID(t *testing.T) {
	h := newHarness(t, strings.NewReader(""))

	h.addresses.On("Districts", mock.Anything, int64(6)).
		Return([]entity.LocalityOption{{ID: 61, Name: "Çankaya"}}, nil).Once()

	assert.Contains(t, h.run(t, "localities districts 6"), "Çankaya")
	assert.Equal(t, "! invalidinput six\n", h.run(t, "localities districts six"))
}

func TestConsole_UsageErrorsAreWarnings(t *testing.T) {
	h := newHarness(t, strings.NewReader(""))

	assert.True(t, strings.HasPrefix(h.run(t, "feed everything"), "! invalidinput"))
	assert.True(t, strings.HasPrefix(h.run(t, "nosuchcommand"), "! invalidinput"))
	assert.True(t, strings.HasPrefix(h.run(t, `login "unterminated`), "! invalidinput"))
}

func TestConsole_LogoutClearsSession(t *testing.T) {
	h := newHarness(t, strings.NewReader(""))
	h.login(t, ayse)
	h.accounts.On("Logout", mock.Anything).Once()

	assert.Equal(t, "logoutsuccess\n", h.run(t, "logout"))
	assert.Equal(t, "! notloggedin\n", h.run(t, "history"))
	h.accounts.AssertExpectations(t)
}

func TestConsole_ServeStopsApplicationOnExitOrEOF(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "exit command", input: "exit\nstats\n"},
		{name: "end of input", input: "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, strings.NewReader(tt.input))

			require.NoError(t, h.console.Serve(context.Background()))
			assert.Equal(t, 1, h.shutdowner.count())
			h.accounts.AssertNotCalled(t, "ResolveToken", mock.Anything, mock.Anything)
		})
	}
}

func TestConsole_ServeDisabled(t *testing.T) {
	h := newHarness(t, strings.NewReader("stats\n"))
	h.console.cfg = &config.Config{Console: &config.ConsoleConfig{Enabled: false}}

	require.NoError(t, h.console.Serve(context.Background()))
	assert.Zero(t, h.shutdowner.count())
}

func TestPresenter_ForceTerminate(t *testing.T) {
	var out bytes.Buffer
	pool := &fakePool{err: assert.AnError}
	var codes []int
	p := &presenter{
		term:     NewTerminalFor(&out),
		provider: pool,
		exit:     func(code int) { codes = append(codes, code) },
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	p.ShowInfo("hello")
	p.ShowWarning("careful")
	p.ForceTerminate()

	assert.Equal(t, "hello\n! careful\n", out.String())
	assert.Equal(t, 1, pool.calls)
	assert.Equal(t, []int{0}, codes)
}
