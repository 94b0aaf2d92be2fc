package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"discharge-care-be/internal/pkg/logger"
	"discharge-care-be/internal/repository/memory"
	"discharge-care-be/pkg/ai/agent"
	"discharge-care-be/pkg/ai/router"
	"discharge-care-be/pkg/interaction"
	"discharge-care-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type receptionistFunc func(ctx context.Context, in agent.ReceptionistInput) (*agent.ReceptionistReply, error)

func (f receptionistFunc) Respond(ctx context.Context, in agent.ReceptionistInput) (*agent.ReceptionistReply, error) {
	return f(ctx, in)
}

type clinicalFunc func(ctx context.Context, in agent.ClinicalInput) (string, error)

func (f clinicalFunc) Respond(ctx context.Context, in agent.ClinicalInput) (string, error) {
	return f(ctx, in)
}

func says(output string) receptionistFunc {
	return func(ctx context.Context, in agent.ReceptionistInput) (*agent.ReceptionistReply, error) {
		return &agent.ReceptionistReply{Decision: router.Decide(output), Raw: output}, nil
	}
}

type recordingSink struct {
	mu      sync.Mutex
	records []interaction.Record
}

func (s *recordingSink) Record(ctx context.Context, rec interaction.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
}

func (s *recordingSink) types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.MessageType)
	}
	return out
}

func newOrchestrator(r Receptionist, c Clinical, sink interaction.Sink, timeout time.Duration) *Orchestrator {
	n := 0
	var mu sync.Mutex
	return New(r, c, memory.NewSessionRepository(time.Hour), sink, logger.NewNopLogger(), Options{
		AgentTimeout: timeout,
		NewID: func() string {
			mu.Lock()
			defer mu.Unlock()
			n++
			return fmt.Sprintf("session-%d", n)
		},
	})
}

func unusedClinical(t *testing.T) clinicalFunc {
	return func(ctx context.Context, in agent.ClinicalInput) (string, error) {
		t.Fatalf("clinical responder should not be called")
		return "", nil
	}
}

func TestGreetingStaysWithReceptionist(t *testing.T) {
	sink := &recordingSink{}
	o := newOrchestrator(says("Hello! What is your name?"), unusedClinical(t), sink, time.Second)

	res := o.ProcessTurn(context.Background(), "s-1", "hello")

	assert.Equal(t, "Hello! What is your name?", res.Reply)
	assert.Equal(t, store.Receptionist, res.ActiveResponder)
	assert.False(t, res.Routed)

	snap, ok := o.Snapshot("s-1")
	require.True(t, ok)
	require.Len(t, snap.Turns, 2)
	assert.Equal(t, store.AuthorUser, snap.Turns[0].Author)
	assert.Equal(t, "hello", snap.Turns[0].Text)
	assert.Equal(t, store.Receptionist, snap.Turns[1].Author)
	assert.Equal(t, []string{interaction.TypeUserInput, interaction.TypeAgentResponse}, sink.types())
}

func TestRoutedTurnInvokesClinical(t *testing.T) {
	var got agent.ClinicalInput
	clinical := clinicalFunc(func(ctx context.Context, in agent.ClinicalInput) (string, error) {
		got = in
		return "Some swelling is expected. ⚕️ disclaimer", nil
	})
	sink := &recordingSink{}
	o := newOrchestrator(says("Let's look into that. ROUTE_TO_CLINICAL: why is my leg swelling?"), clinical, sink, time.Second)

	res := o.ProcessTurn(context.Background(), "s-1", "my leg is swollen, is that bad?")

	assert.Equal(t, "why is my leg swelling?", got.Query)
	assert.Empty(t, got.History, "prior turns exclude the current user message")
	assert.Equal(t, store.Clinical, res.ActiveResponder)
	assert.Equal(t, "Some swelling is expected. ⚕️ disclaimer", res.Reply)
	assert.True(t, res.Routed)

	snap, _ := o.Snapshot("s-1")
	require.Len(t, snap.Turns, 2, "exactly one visible reply per turn")
	assert.Equal(t, store.Clinical, snap.Turns[1].Author)
	assert.Equal(t, []string{interaction.TypeUserInput, interaction.TypeHandoff, interaction.TypeAgentResponse}, sink.types())
}

func TestEmptyRoutedQueryFallsBackToUserText(t *testing.T) {
	var query string
	clinical := clinicalFunc(func(ctx context.Context, in agent.ClinicalInput) (string, error) {
		query = in.Query
		return "answer ⚕️", nil
	})
	o := newOrchestrator(says("ROUTE_TO_CLINICAL:"), clinical, nil, time.Second)

	res := o.ProcessTurn(context.Background(), "s-1", "can I eat bananas?")

	assert.Equal(t, "can I eat bananas?", query)
	assert.Equal(t, store.Clinical, res.ActiveResponder)
}

func TestSecondTurnSeesPriorTurns(t *testing.T) {
	var histories [][]store.Turn
	receptionist := receptionistFunc(func(ctx context.Context, in agent.ReceptionistInput) (*agent.ReceptionistReply, error) {
		histories = append(histories, in.History)
		return &agent.ReceptionistReply{Decision: router.Decide("ok")}, nil
	})
	o := newOrchestrator(receptionist, unusedClinical(t), nil, time.Second)

	o.ProcessTurn(context.Background(), "s-1", "first")
	o.ProcessTurn(context.Background(), "s-1", "second")

	require.Len(t, histories, 2)
	assert.Empty(t, histories[0])
	require.Len(t, histories[1], 2)
	assert.Equal(t, "first", histories[1][0].Text)
}

func TestResponderFailuresBecomeApologies(t *testing.T) {
	boom := errors.New("upstream unavailable")

	tests := []struct {
		name       string
		r          Receptionist
		c          Clinical
		wantReply  string
		wantActive store.Responder
		wantTypes  []string
	}{
		{
			name: "receptionist error",
			r: receptionistFunc(func(ctx context.Context, in agent.ReceptionistInput) (*agent.ReceptionistReply, error) {
				return nil, boom
			}),
			wantReply:  ReceptionistApology,
			wantActive: store.Receptionist,
			wantTypes:  []string{interaction.TypeUserInput, interaction.TypeError, interaction.TypeAgentResponse},
		},
		{
			name: "receptionist panic",
			r: receptionistFunc(func(ctx context.Context, in agent.ReceptionistInput) (*agent.ReceptionistReply, error) {
				panic("nil map")
			}),
			wantReply:  ReceptionistApology,
			wantActive: store.Receptionist,
			wantTypes:  []string{interaction.TypeUserInput, interaction.TypeError, interaction.TypeAgentResponse},
		},
		{
			name: "clinical error",
			r:    says("ROUTE_TO_CLINICAL: is this normal?"),
			c: clinicalFunc(func(ctx context.Context, in agent.ClinicalInput) (string, error) {
				return "", boom
			}),
			wantReply:  ClinicalApology,
			wantActive: store.Clinical,
			wantTypes:  []string{interaction.TypeUserInput, interaction.TypeHandoff, interaction.TypeError, interaction.TypeAgentResponse},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordingSink{}
			o := newOrchestrator(tt.r, tt.c, sink, time.Second)

			res := o.ProcessTurn(context.Background(), "s-1", "hi")

			assert.Equal(t, tt.wantReply, res.Reply)
			assert.Equal(t, tt.wantActive, res.ActiveResponder)

			snap, _ := o.Snapshot("s-1")
			require.Len(t, snap.Turns, 2)
			assert.Equal(t, tt.wantReply, snap.Turns[1].Text)
			require.Equal(t, tt.wantTypes, sink.types())

			apology := sink.records[len(sink.records)-1]
			assert.Equal(t, tt.wantReply, apology.Text)
			assert.Equal(t, string(tt.wantActive), apology.Agent)
			assert.Equal(t, true, apology.Metadata["failed"])
		})
	}
}

func TestResponderTimeoutIsFailure(t *testing.T) {
	slow := receptionistFunc(func(ctx context.Context, in agent.ReceptionistInput) (*agent.ReceptionistReply, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	o := newOrchestrator(slow, unusedClinical(t), nil, 20*time.Millisecond)

	res := o.ProcessTurn(context.Background(), "s-1", "hi")

	assert.Equal(t, ReceptionistApology, res.Reply)
}

func TestPatientContextFirstWins(t *testing.T) {
	patients := []*store.PatientContext{{PatientName: "John Smith"}, {PatientName: "Jane Doe"}}
	i := 0
	receptionist := receptionistFunc(func(ctx context.Context, in agent.ReceptionistInput) (*agent.ReceptionistReply, error) {
		p := patients[i]
		i++
		return &agent.ReceptionistReply{Decision: router.Decide("noted"), Patient: p}, nil
	})
	o := newOrchestrator(receptionist, unusedClinical(t), nil, time.Second)

	o.ProcessTurn(context.Background(), "s-1", "John Smith")
	res := o.ProcessTurn(context.Background(), "s-1", "actually Jane Doe")

	assert.Equal(t, "John Smith", res.PatientName)
}

func TestResetSessionIssuesFreshID(t *testing.T) {
	o := newOrchestrator(says("hello"), unusedClinical(t), nil, time.Second)
	o.ProcessTurn(context.Background(), "old", "hi")

	fresh := o.ResetSession(context.Background(), "old")

	assert.NotEqual(t, "old", fresh)
	_, ok := o.Snapshot("old")
	assert.False(t, ok)

	snap, ok := o.Snapshot(fresh)
	require.True(t, ok)
	assert.Empty(t, snap.Turns)
	assert.Nil(t, snap.PatientContext)
	assert.Equal(t, store.Receptionist, snap.ActiveResponder)
}

func TestEmptySessionIDStartsSession(t *testing.T) {
	o := newOrchestrator(says("hello"), unusedClinical(t), nil, time.Second)

	res := o.ProcessTurn(context.Background(), "", "hi")

	assert.Equal(t, "session-1", res.SessionID)
	_, ok := o.Snapshot("session-1")
	assert.True(t, ok)
}

func TestConcurrentSessionsStayIndependent(t *testing.T) {
	o := newOrchestrator(says("ack"), unusedClinical(t), nil, time.Second)

	var wg sync.WaitGroup
	for s := 0; s < 10; s++ {
		wg.Add(1)
		go func(s int) {
			defer wg.Done()
			id := fmt.Sprintf("s-%d", s)
			for turn := 0; turn < 5; turn++ {
				o.ProcessTurn(context.Background(), id, fmt.Sprintf("%s turn %d", id, turn))
			}
		}(s)
	}
	wg.Wait()

	for s := 0; s < 10; s++ {
		id := fmt.Sprintf("s-%d", s)
		snap, ok := o.Snapshot(id)
		require.True(t, ok)
		require.Len(t, snap.Turns, 10)
		for turn := 0; turn < 5; turn++ {
			assert.Equal(t, fmt.Sprintf("%s turn %d", id, turn), snap.Turns[2*turn].Text)
			assert.Equal(t, store.Receptionist, snap.Turns[2*turn+1].Author)
		}
	}
}
