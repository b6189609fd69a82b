package analysis

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Service picks between the LLM and the heuristic for each review.
type Service struct {
	heuristic *Heuristic
	llm       *LLMAnalyzer
	calls     CallLog
	policy    GuardPolicy
	now       func() time.Time
	logger    *zap.Logger
}

// NewService builds the analyzer. llm or calls may be nil, in which case
// every request takes the heuristic path.
func NewService(heuristic *Heuristic, llm *LLMAnalyzer, calls CallLog, policy GuardPolicy, logger *zap.Logger) *Service {
	if heuristic == nil {
		heuristic = NewHeuristic(nil, nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if llm == nil || calls == nil {
		policy.Enabled = false
	}
	return &Service{
		heuristic: heuristic,
		llm:       llm,
		calls:     calls,
		policy:    policy,
		now:       time.Now,
		logger:    logger,
	}
}

// Analyze never fails: any problem on the LLM path falls back to the heuristic.
func (s *Service) Analyze(ctx context.Context, userID string, in Input) Result {
	if !s.policy.Enabled {
		return s.heuristic.Analyze(in)
	}

	now := s.now()
	lastUser, lastGlobal, err := s.calls.LastCalls(ctx, userID)
	if err != nil {
		s.logger.Warn("llm guard unavailable, using heuristic analysis",
			zap.String("user_id", userID),
			zap.String("reason", string(ReasonGuardError)),
			zap.Error(err),
		)
		return s.heuristic.Analyze(in)
	}

	ok, reason := ShouldCallLLM(now, lastUser, lastGlobal, s.policy)
	if !ok {
		s.logger.Debug("llm call skipped",
			zap.String("user_id", userID),
			zap.String("reason", string(reason)),
		)
		return s.heuristic.Analyze(in)
	}

	if err := s.calls.RecordCall(ctx, userID, now); err != nil {
		s.logger.Warn("failed to record llm call", zap.String("user_id", userID), zap.Error(err))
	}

	res, err := s.llm.Analyze(ctx, in)
	if err != nil {
		s.logger.Warn("llm analysis failed, using heuristic analysis",
			zap.String("user_id", userID),
			zap.String("reason", string(ReasonLLMError)),
			zap.Error(err),
		)
		return s.heuristic.Analyze(in)
	}

	if len(res.Topics) == 0 {
		res.Topics = ExtractTopics(s.heuristic.Lexicon(), in.ReviewText, in.BookSummary)
	}
	res.BookEmotions = ExtractBookEmotions(s.heuristic.Lexicon(), in.BookSummary)
	res.Emotions = MergeEmotions(MaxEmotions, res.Emotions, res.BookEmotions)
	return res
}
