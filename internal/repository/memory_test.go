package repository

import (
	"errors"
	"sync"
	"testing"
	"time"

	"acaia_backend/internal/model"
	"acaia_backend/internal/util"
)

func TestMemoryStoreSeed(t *testing.T) {
	s := NewMemoryStore()

	u, err := s.FindUserByEmail("test@example.com")
	if err != nil {
		t.Fatalf("seeded student missing: %v", err)
	}
	if u.Role != model.Student {
		t.Errorf("Role = %s, want %s", u.Role, model.Student)
	}

	admin, err := s.FindUserByEmail("admin@example.com")
	if err != nil {
		t.Fatalf("seeded admin missing: %v", err)
	}
	if admin.Role != model.Admin {
		t.Errorf("Role = %s, want %s", admin.Role, model.Admin)
	}

	_, total, err := s.ListProblems(ProblemFilter{}, 1, 10)
	if err != nil || total != 2 {
		t.Errorf("seeded problems = %d (err %v), want 2", total, err)
	}

	exam, err := s.FindExam(1)
	if err != nil {
		t.Fatalf("seeded exam missing: %v", err)
	}
	if exam.QuestionCount() != 2 {
		t.Errorf("QuestionCount = %d, want 2", exam.QuestionCount())
	}
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	s := NewMemoryStore()

	err := s.CreateUser(&model.User{Email: "Test@Example.com", Password: "x"})
	if !errors.Is(err, util.ErrEmailRegistered) {
		t.Fatalf("err = %v, want ErrEmailRegistered", err)
	}

	fresh := &model.User{Email: "NEW@example.com", Password: "x", IsActive: true}
	if err := s.CreateUser(fresh); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if fresh.Email != "new@example.com" {
		t.Errorf("Email = %q, want normalized lowercase", fresh.Email)
	}
	if fresh.ID == 0 {
		t.Error("ID not assigned")
	}
}

func TestChatMessageOrdering(t *testing.T) {
	s := NewMemoryStore()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	chat := &model.Chat{UserID: 1, Title: "Fizika", Subject: "physics", IsActive: true}
	if err := s.CreateChat(chat); err != nil {
		t.Fatalf("CreateChat: %v", err)
	}

	// Append out of chronological order; FindChat must sort by timestamp.
	msgs := []model.ChatMessage{
		{Role: model.RoleAssistant, Content: "drugi", Timestamp: base.Add(2 * time.Minute)},
		{Role: model.RoleUser, Content: "prvi", Timestamp: base},
	}
	chat.LastActivity = base.Add(2 * time.Minute)
	if err := s.AddMessages(chat, msgs); err != nil {
		t.Fatalf("AddMessages: %v", err)
	}

	got, err := s.FindChat(1, chat.ID)
	if err != nil {
		t.Fatalf("FindChat: %v", err)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(got.Messages))
	}
	if got.Messages[0].Content != "prvi" || got.Messages[1].Content != "drugi" {
		t.Errorf("messages out of order: %q then %q", got.Messages[0].Content, got.Messages[1].Content)
	}
	for _, m := range got.Messages {
		if m.ID == "" {
			t.Error("message ID not assigned")
		}
		if m.ChatID != chat.ID {
			t.Errorf("ChatID = %d, want %d", m.ChatID, chat.ID)
		}
	}
}

func TestSoftDeleteChatHidesFromListAndFind(t *testing.T) {
	s := NewMemoryStore()

	if err := s.SoftDeleteChat(1, 1); err != nil {
		t.Fatalf("SoftDeleteChat: %v", err)
	}
	if _, err := s.FindChat(1, 1); !errors.Is(err, util.ErrChatNotFound) {
		t.Errorf("FindChat after delete: err = %v, want ErrChatNotFound", err)
	}
	_, total, _ := s.ListChats(1, 1, 10)
	if total != 0 {
		t.Errorf("ListChats total = %d, want 0", total)
	}
	if err := s.SoftDeleteChat(1, 1); !errors.Is(err, util.ErrChatNotFound) {
		t.Errorf("second delete: err = %v, want ErrChatNotFound", err)
	}
}

func TestListProblemsFiltering(t *testing.T) {
	s := NewMemoryStore()

	got, total, err := s.ListProblems(ProblemFilter{Difficulty: model.Advanced}, 1, 10)
	if err != nil {
		t.Fatalf("ListProblems: %v", err)
	}
	if total != 1 || len(got) != 1 {
		t.Fatalf("total = %d, len = %d, want 1 and 1", total, len(got))
	}
	if got[0].Difficulty != model.Advanced {
		t.Errorf("Difficulty = %s, want advanced", got[0].Difficulty)
	}

	_, total, _ = s.ListProblems(ProblemFilter{Subject: "chemistry"}, 1, 10)
	if total != 0 {
		t.Errorf("unmatched subject total = %d, want 0", total)
	}
}

func TestPagination(t *testing.T) {
	s := NewMemoryStore()
	for i := 0; i < 7; i++ {
		p := &model.Problem{
			Title:      "p",
			Subject:    "physics",
			Difficulty: model.Beginner,
			Type:       model.OpenEnded,
			IsActive:   true,
		}
		if err := s.CreateProblem(p); err != nil {
			t.Fatalf("CreateProblem: %v", err)
		}
	}

	page1, total, _ := s.ListProblems(ProblemFilter{Subject: "physics"}, 1, 3)
	if total != 7 || len(page1) != 3 {
		t.Fatalf("page 1: total = %d, len = %d, want 7 and 3", total, len(page1))
	}
	page3, _, _ := s.ListProblems(ProblemFilter{Subject: "physics"}, 3, 3)
	if len(page3) != 1 {
		t.Errorf("page 3 len = %d, want 1", len(page3))
	}
	page4, _, _ := s.ListProblems(ProblemFilter{Subject: "physics"}, 4, 3)
	if len(page4) != 0 {
		t.Errorf("page past the end len = %d, want 0", len(page4))
	}
}

func TestCreateSubmissionRejectsSecondAttempt(t *testing.T) {
	s := NewMemoryStore()

	first := &model.ExamSubmission{ExamID: 1, UserID: 1, Score: 50}
	if err := s.CreateSubmission(first); err != nil {
		t.Fatalf("first submission: %v", err)
	}
	second := &model.ExamSubmission{ExamID: 1, UserID: 1, Score: 100}
	if err := s.CreateSubmission(second); !errors.Is(err, util.ErrAlreadySubmitted) {
		t.Fatalf("second submission: err = %v, want ErrAlreadySubmitted", err)
	}

	exam, _ := s.FindExam(1)
	if len(exam.Submissions) != 1 {
		t.Fatalf("submissions = %d, want 1", len(exam.Submissions))
	}
	if exam.Submissions[0].Score != 50 {
		t.Errorf("stored score = %v, want the first submission kept", exam.Submissions[0].Score)
	}
}

func TestCreateSubmissionConcurrent(t *testing.T) {
	s := NewMemoryStore()

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.CreateSubmission(&model.ExamSubmission{ExamID: 1, UserID: 42})
		}()
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, util.ErrAlreadySubmitted):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || dup != workers-1 {
		t.Fatalf("ok = %d, dup = %d, want exactly one winner", ok, dup)
	}

	exam, _ := s.FindExam(1)
	var count int
	for _, sub := range exam.Submissions {
		if sub.UserID == 42 {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("stored submissions for user = %d, want 1", count)
	}
}

func TestUpdateExamStatsUnknownExam(t *testing.T) {
	s := NewMemoryStore()
	err := s.UpdateExamStats(&model.Exam{BaseModel: model.BaseModel{ID: 999}})
	if !errors.Is(err, util.ErrExamNotFound) {
		t.Fatalf("err = %v, want ErrExamNotFound", err)
	}
}
