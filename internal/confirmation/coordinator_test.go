package confirmation_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/cmdlauncher/internal/confirmation"
	"github.com/temirov/cmdlauncher/internal/eventbus"
)

const (
	testViewIdentifierConstant        = "01JCONFIRMATIONVIEW00000001"
	testForeignViewIdentifierConstant = "01JCONFIRMATIONVIEW00000002"
	testCommandConstant               = "notepad.exe"
	testRepeatedSignalCount           = 5
	testConcurrentSignalCount         = 64
	testViewOpenFailureMessage        = "window creation failed"
)

type recordingView struct {
	identifier string
	pushMutex  sync.Mutex
	pushes     []string
	closeCalls atomic.Int32
}

func (view *recordingView) Identifier() string {
	return view.identifier
}

func (view *recordingView) Push(_ context.Context, key eventbus.EventKey, payload any) error {
	view.pushMutex.Lock()
	defer view.pushMutex.Unlock()
	view.pushes = append(view.pushes, string(key)+"="+payload.(string))
	return nil
}

func (view *recordingView) Close() error {
	view.closeCalls.Add(1)
	return nil
}

func (view *recordingView) recordedPushes() []string {
	view.pushMutex.Lock()
	defer view.pushMutex.Unlock()
	return append([]string(nil), view.pushes...)
}

type recordingViewOpener struct {
	openError      error
	announceOnOpen *eventbus.Bus
	views          []*recordingView
}

func (opener *recordingViewOpener) OpenView(executionContext context.Context, request confirmation.ViewRequest) (confirmation.View, error) {
	if opener.openError != nil {
		return nil, opener.openError
	}
	view := &recordingView{identifier: request.Identifier}
	opener.views = append(opener.views, view)
	if opener.announceOnOpen != nil {
		if publishError := opener.announceOnOpen.Publish(executionContext, eventbus.EventConfirmationWindowLoaded, request.Identifier); publishError != nil {
			return nil, publishError
		}
	}
	return view, nil
}

func fixedIdentifier() string {
	return testViewIdentifierConstant
}

func newTestCoordinator(testInstance *testing.T, opener confirmation.ViewOpener, bus *eventbus.Bus) *confirmation.Coordinator {
	testInstance.Helper()
	coordinator, creationError := confirmation.NewCoordinator(confirmation.Dependencies{
		ViewOpener:       opener,
		Events:           bus,
		Logger:           zap.NewNop(),
		IdentifierSource: fixedIdentifier,
	})
	require.NoError(testInstance, creationError)
	return coordinator
}

func TestNewCoordinatorValidatesDependencies(testInstance *testing.T) {
	testCases := []struct {
		name          string
		dependencies  confirmation.Dependencies
		expectedError error
	}{
		{
			name:          "view_opener_required",
			dependencies:  confirmation.Dependencies{Events: eventbus.New(nil)},
			expectedError: confirmation.ErrViewOpenerNotConfigured,
		},
		{
			name:          "event_subscriber_required",
			dependencies:  confirmation.Dependencies{ViewOpener: &recordingViewOpener{}},
			expectedError: confirmation.ErrEventSubscriberNotConfigured,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			coordinator, creationError := confirmation.NewCoordinator(testCase.dependencies)
			require.ErrorIs(testInstance, creationError, testCase.expectedError)
			require.Nil(testInstance, coordinator)
		})
	}
}

func TestRepeatedReadySignalsDeliverCommandOnce(testInstance *testing.T) {
	bus := eventbus.New(nil)
	opener := &recordingViewOpener{}
	coordinator := newTestCoordinator(testInstance, opener, bus)

	handshake, openError := coordinator.Open(context.Background(), testCommandConstant)
	require.NoError(testInstance, openError)
	require.Equal(testInstance, confirmation.StateAwaitingReady, handshake.State())
	require.Equal(testInstance, 1, bus.SubscriberCount(eventbus.EventConfirmationWindowLoaded))

	for signalIndex := 0; signalIndex < testRepeatedSignalCount; signalIndex++ {
		require.NoError(testInstance, bus.Publish(context.Background(), eventbus.EventConfirmationWindowLoaded, testViewIdentifierConstant))
	}
	bus.Wait()

	require.NoError(testInstance, handshake.Wait(context.Background()))
	<-handshake.Delivered()
	require.Equal(testInstance, confirmation.StateDelivered, handshake.State())
	require.Equal(testInstance, []string{"update-command=" + testCommandConstant}, opener.views[0].recordedPushes())
	require.Zero(testInstance, bus.SubscriberCount(eventbus.EventConfirmationWindowLoaded))
}

func TestConcurrentReadySignalsDeliverCommandOnce(testInstance *testing.T) {
	bus := eventbus.New(nil)
	opener := &recordingViewOpener{}
	coordinator := newTestCoordinator(testInstance, opener, bus)

	handshake, openError := coordinator.Open(context.Background(), testCommandConstant)
	require.NoError(testInstance, openError)

	var publishers sync.WaitGroup
	for signalIndex := 0; signalIndex < testConcurrentSignalCount; signalIndex++ {
		publishers.Add(1)
		go func() {
			defer publishers.Done()
			_ = bus.Publish(context.Background(), eventbus.EventConfirmationWindowLoaded, testViewIdentifierConstant)
		}()
	}
	publishers.Wait()
	bus.Wait()

	require.NoError(testInstance, handshake.Wait(context.Background()))
	require.Len(testInstance, opener.views[0].recordedPushes(), 1)
}

func TestReadySignalFromAnotherViewIsIgnored(testInstance *testing.T) {
	bus := eventbus.New(nil)
	opener := &recordingViewOpener{}
	coordinator := newTestCoordinator(testInstance, opener, bus)

	handshake, openError := coordinator.Open(context.Background(), testCommandConstant)
	require.NoError(testInstance, openError)

	require.NoError(testInstance, bus.Publish(context.Background(), eventbus.EventConfirmationWindowLoaded, testForeignViewIdentifierConstant))
	require.NoError(testInstance, bus.Publish(context.Background(), eventbus.EventConfirmationWindowLoaded, map[string]string{"view": testViewIdentifierConstant}))
	bus.Wait()

	require.Equal(testInstance, confirmation.StateAwaitingReady, handshake.State())
	require.Empty(testInstance, opener.views[0].recordedPushes())
	require.Equal(testInstance, 1, bus.SubscriberCount(eventbus.EventConfirmationWindowLoaded))
	select {
	case <-handshake.Delivered():
		testInstance.Fatal("command delivered to a foreign view")
	default:
	}
}

func TestReadySignalDuringViewCreationIsNotLost(testInstance *testing.T) {
	bus := eventbus.New(nil)
	opener := &recordingViewOpener{announceOnOpen: bus}
	coordinator := newTestCoordinator(testInstance, opener, bus)

	handshake, openError := coordinator.Open(context.Background(), testCommandConstant)
	require.NoError(testInstance, openError)
	bus.Wait()

	require.NoError(testInstance, handshake.Wait(context.Background()))
	require.Equal(testInstance, confirmation.StateDelivered, handshake.State())
	require.Len(testInstance, opener.views[0].recordedPushes(), 1)
}

func TestCloseBeforeReadyAbandonsDelivery(testInstance *testing.T) {
	bus := eventbus.New(nil)
	opener := &recordingViewOpener{}
	coordinator := newTestCoordinator(testInstance, opener, bus)

	handshake, openError := coordinator.Open(context.Background(), testCommandConstant)
	require.NoError(testInstance, openError)

	require.NoError(testInstance, handshake.Close())
	require.NoError(testInstance, handshake.Close())
	require.Equal(testInstance, confirmation.StateClosed, handshake.State())
	require.ErrorIs(testInstance, handshake.Wait(context.Background()), confirmation.ErrHandshakeClosed)
	require.Zero(testInstance, bus.SubscriberCount(eventbus.EventConfirmationWindowLoaded))
	require.Equal(testInstance, int32(1), opener.views[0].closeCalls.Load())

	require.NoError(testInstance, bus.Publish(context.Background(), eventbus.EventConfirmationWindowLoaded, testViewIdentifierConstant))
	bus.Wait()
	require.Empty(testInstance, opener.views[0].recordedPushes())
}

func TestCloseAfterDeliveryOnlyClosesView(testInstance *testing.T) {
	bus := eventbus.New(nil)
	opener := &recordingViewOpener{announceOnOpen: bus}
	coordinator := newTestCoordinator(testInstance, opener, bus)

	handshake, openError := coordinator.Open(context.Background(), testCommandConstant)
	require.NoError(testInstance, openError)
	require.NoError(testInstance, handshake.Wait(context.Background()))

	require.NoError(testInstance, handshake.Close())
	require.Equal(testInstance, confirmation.StateDelivered, handshake.State())
	require.Equal(testInstance, int32(1), opener.views[0].closeCalls.Load())
}

func TestOpenReportsViewCreationFailure(testInstance *testing.T) {
	bus := eventbus.New(nil)
	opener := &recordingViewOpener{openError: errors.New(testViewOpenFailureMessage)}
	coordinator := newTestCoordinator(testInstance, opener, bus)

	handshake, openError := coordinator.Open(context.Background(), testCommandConstant)
	require.EqualError(testInstance, openError, testViewOpenFailureMessage)
	require.Nil(testInstance, handshake)
	require.Zero(testInstance, bus.SubscriberCount(eventbus.EventConfirmationWindowLoaded))
}

func TestNewViewIdentifierProducesDistinctIdentities(testInstance *testing.T) {
	firstIdentifier := confirmation.NewViewIdentifier()
	secondIdentifier := confirmation.NewViewIdentifier()
	require.Len(testInstance, firstIdentifier, 26)
	require.NotEqual(testInstance, firstIdentifier, secondIdentifier)
}

func TestTerminalViewPromptsAndReportsDecision(testInstance *testing.T) {
	testCases := []struct {
		name             string
		input            string
		expectedApproval bool
	}{
		{name: "short_affirmative", input: "y\n", expectedApproval: true},
		{name: "long_affirmative_mixed_case", input: " YES \n", expectedApproval: true},
		{name: "negative", input: "n\n", expectedApproval: false},
		{name: "empty_input", input: "", expectedApproval: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			bus := eventbus.New(nil)
			output := &bytes.Buffer{}

			var decidedCommand string
			var decidedApproval bool
			var decisionCalls atomic.Int32
			opener := confirmation.NewTerminalViewOpener(strings.NewReader(testCase.input), output, bus, func(_ context.Context, command string, approved bool) error {
				decisionCalls.Add(1)
				decidedCommand = command
				decidedApproval = approved
				return nil
			})

			coordinator, creationError := confirmation.NewCoordinator(confirmation.Dependencies{ViewOpener: opener, Events: bus})
			require.NoError(testInstance, creationError)

			handshake, openError := coordinator.Open(context.Background(), testCommandConstant)
			require.NoError(testInstance, openError)
			require.NoError(testInstance, handshake.Wait(context.Background()))
			require.NoError(testInstance, handshake.Close())
			bus.Wait()

			require.Equal(testInstance, int32(1), decisionCalls.Load())
			require.Equal(testInstance, testCommandConstant, decidedCommand)
			require.Equal(testInstance, testCase.expectedApproval, decidedApproval)
			require.Equal(testInstance, "Run \""+testCommandConstant+"\"? [y/N] ", output.String())

			terminalView, isTerminal := handshake.View().(*confirmation.TerminalView)
			require.True(testInstance, isTerminal)
			require.Equal(testInstance, testCase.expectedApproval, terminalView.Approved())
			require.Equal(testInstance, handshake.ViewIdentifier(), terminalView.Identifier())
		})
	}
}

func TestTerminalViewIgnoresPushesAfterClose(testInstance *testing.T) {
	opener := confirmation.NewTerminalViewOpener(strings.NewReader("y\n"), nil, eventbus.New(nil), nil)
	view, openError := opener.OpenView(context.Background(), confirmation.ViewRequest{Identifier: testViewIdentifierConstant})
	require.NoError(testInstance, openError)

	require.NoError(testInstance, view.Close())
	require.NoError(testInstance, view.Push(context.Background(), eventbus.EventUpdateCommand, testCommandConstant))
	require.False(testInstance, view.(*confirmation.TerminalView).Approved())
}

func TestTerminalViewOpenerRequiresPublisher(testInstance *testing.T) {
	opener := confirmation.NewTerminalViewOpener(strings.NewReader(""), nil, nil, nil)
	view, openError := opener.OpenView(context.Background(), confirmation.ViewRequest{Identifier: testViewIdentifierConstant})
	require.ErrorIs(testInstance, openError, confirmation.ErrEventPublisherNotConfigured)
	require.Nil(testInstance, view)
}
