package repository

import (
	"acaia_backend/internal/model"
	"acaia_backend/internal/util"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// MemoryStore is the zero-database backend. It implements all four
// repository interfaces and is selected at startup when MySQL is
// disabled or unreachable.
type MemoryStore struct {
	mu sync.RWMutex

	users    []model.User
	chats    []model.Chat
	problems []model.Problem
	exams    []model.Exam

	nextUserID    uint
	nextChatID    uint
	nextProblemID uint
	nextExamID    uint
	nextSubID     uint
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		nextUserID:    1,
		nextChatID:    1,
		nextProblemID: 1,
		nextExamID:    1,
		nextSubID:     1,
	}
	s.seed()
	return s
}

func (s *MemoryStore) seed() {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	seededAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, u := range []model.User{
		{
			Email:       "test@example.com",
			Password:    string(hash),
			FirstName:   "Test",
			LastName:    "User",
			Role:        model.Student,
			IsActive:    true,
			Preferences: model.DefaultPreferences(),
		},
		{
			Email:       "admin@example.com",
			Password:    string(hash),
			FirstName:   "Admin",
			LastName:    "User",
			Role:        model.Admin,
			IsActive:    true,
			Preferences: model.DefaultPreferences(),
		},
	} {
		u.ID = s.nextUserID
		u.CreatedAt = seededAt
		u.UpdatedAt = seededAt
		s.nextUserID++
		s.users = append(s.users, u)
	}

	chat := model.Chat{
		UserID:       1,
		Title:        "Pomoć sa matematikom",
		Subject:      "mathematics",
		IsActive:     true,
		Difficulty:   model.Intermediate,
		LastActivity: seededAt.Add(10*time.Hour + time.Minute),
		Messages: []model.ChatMessage{
			{
				Role:      model.RoleUser,
				Content:   "Kako da rešim kvadratnu jednačinu?",
				Timestamp: seededAt.Add(10 * time.Hour),
			},
			{
				Role:      model.RoleAssistant,
				Content:   "Kvadratna jednačina ima oblik ax² + bx + c = 0. Možeš je rešiti koristeći formulu: x = (-b ± √(b² - 4ac)) / 2a",
				Timestamp: seededAt.Add(10*time.Hour + time.Minute),
			},
		},
	}
	chat.ID = s.nextChatID
	chat.CreatedAt = seededAt
	chat.UpdatedAt = chat.LastActivity
	s.nextChatID++
	for i := range chat.Messages {
		chat.Messages[i].ID = model.GenerateUUID()
		chat.Messages[i].ChatID = chat.ID
	}
	s.chats = append(s.chats, chat)

	for _, p := range []model.Problem{
		{
			Title:       "Kvadratna jednačina",
			Description: "Reši kvadratnu jednačinu: x² - 5x + 6 = 0",
			Subject:     "mathematics",
			Difficulty:  model.Intermediate,
			Type:        model.MultipleChoice,
			Content: model.ProblemContent{
				Question:      "Reši kvadratnu jednačinu: x² - 5x + 6 = 0",
				Options:       model.StringList{"x = 2 ili x = 3", "x = -2 ili x = -3", "x = 1 ili x = 6", "x = -1 ili x = -6"},
				CorrectAnswer: "x = 2 ili x = 3",
				Explanation:   "Koristeći formulu x = (-b ± √(b² - 4ac)) / 2a, gde je a=1, b=-5, c=6",
			},
			Tags:          model.StringList{"algebra"},
			EstimatedTime: 15,
			IsActive:      true,
		},
		{
			Title:       "Derivacija funkcije",
			Description: "Nađi prvi izvod funkcije f(x) = x³ + 2x² - 3x + 1",
			Subject:     "mathematics",
			Difficulty:  model.Advanced,
			Type:        model.OpenEnded,
			Content: model.ProblemContent{
				Question:      "Nađi prvi izvod funkcije f(x) = x³ + 2x² - 3x + 1",
				CorrectAnswer: "f'(x) = 3x² + 4x - 3",
				Explanation:   "Koristeći pravila za derivaciju stepenih funkcija",
			},
			Tags:          model.StringList{"calculus"},
			EstimatedTime: 20,
			IsActive:      true,
		},
	} {
		p.ID = s.nextProblemID
		p.CreatedAt = seededAt
		p.UpdatedAt = seededAt
		s.nextProblemID++
		s.problems = append(s.problems, p)
	}

	exam := model.Exam{
		Title:             "Matematika - Kvadratne jednačine",
		Description:       "Test znanja o kvadratnim jednačinama",
		Subject:           "mathematics",
		Difficulty:        model.Intermediate,
		TotalPoints:       20,
		EstimatedDuration: 30,
		PassingScore:      60,
		IsActive:          true,
		Questions: []model.ExamQuestion{
			{
				Question:      "Reši jednačinu x² - 4x + 3 = 0",
				Type:          model.QuestionMultipleChoice,
				Options:       model.StringList{"x = 1, x = 3", "x = -1, x = -3", "x = 1, x = -3", "x = -1, x = 3"},
				CorrectAnswer: "x = 1, x = 3",
				Points:        10,
				Explanation:   "Koristeći formulu za kvadratnu jednačinu",
				Order:         0,
			},
			{
				Question:      "Koji je diskriminant jednačine x² + 2x + 1 = 0?",
				Type:          model.QuestionMultipleChoice,
				Options:       model.StringList{"0", "1", "4", "8"},
				CorrectAnswer: "0",
				Points:        10,
				Explanation:   "D = b² - 4ac = 4 - 4 = 0",
				Order:         1,
			},
		},
	}
	exam.ID = s.nextExamID
	exam.CreatedAt = seededAt
	exam.UpdatedAt = seededAt
	s.nextExamID++
	for i := range exam.Questions {
		exam.Questions[i].ID = uint(i + 1)
		exam.Questions[i].ExamID = exam.ID
	}
	s.exams = append(s.exams, exam)
}

// --- UserRepository ---

func (s *MemoryStore) CreateUser(user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(user.Email))
	for i := range s.users {
		if s.users[i].Email == email {
			return util.ErrEmailRegistered
		}
	}
	user.Email = email
	user.ID = s.nextUserID
	s.nextUserID++
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users = append(s.users, *user)
	return nil
}

func (s *MemoryStore) FindUserByID(id uint) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, util.ErrUserNotFound
}

func (s *MemoryStore) FindUserByEmail(email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for i := range s.users {
		if s.users[i].Email == email {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, util.ErrUserNotFound
}

func (s *MemoryStore) UpdateUser(user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == user.ID {
			user.UpdatedAt = time.Now()
			s.users[i] = *user
			return nil
		}
	}
	return util.ErrUserNotFound
}

// --- ChatRepository ---

func (s *MemoryStore) CreateChat(chat *model.Chat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat.ID = s.nextChatID
	s.nextChatID++
	now := time.Now()
	chat.CreatedAt = now
	chat.UpdatedAt = now
	if chat.LastActivity.IsZero() {
		chat.LastActivity = now
	}
	for i := range chat.Messages {
		if chat.Messages[i].ID == "" {
			chat.Messages[i].ID = model.GenerateUUID()
		}
		chat.Messages[i].ChatID = chat.ID
	}
	s.chats = append(s.chats, *chat)
	return nil
}

func (s *MemoryStore) FindChat(userID, chatID uint) (*model.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findChatLocked(userID, chatID)
}

func (s *MemoryStore) findChatLocked(userID, chatID uint) (*model.Chat, error) {
	for i := range s.chats {
		c := s.chats[i]
		if c.ID == chatID && c.UserID == userID && c.IsActive {
			c.Messages = append([]model.ChatMessage(nil), c.Messages...)
			sort.SliceStable(c.Messages, func(a, b int) bool {
				return c.Messages[a].Timestamp.Before(c.Messages[b].Timestamp)
			})
			return &c, nil
		}
	}
	return nil, util.ErrChatNotFound
}

func (s *MemoryStore) ListChats(userID uint, page, limit int) ([]model.Chat, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var owned []model.Chat
	for i := range s.chats {
		if s.chats[i].UserID == userID && s.chats[i].IsActive {
			owned = append(owned, s.chats[i])
		}
	}
	sort.SliceStable(owned, func(a, b int) bool {
		return owned[a].LastActivity.After(owned[b].LastActivity)
	})
	return paginate(owned, page, limit), int64(len(owned)), nil
}

func (s *MemoryStore) UpdateChat(chat *model.Chat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.chats {
		if s.chats[i].ID == chat.ID && s.chats[i].UserID == chat.UserID {
			chat.UpdatedAt = time.Now()
			s.chats[i] = *chat
			return nil
		}
	}
	return util.ErrChatNotFound
}

func (s *MemoryStore) AddMessages(chat *model.Chat, messages []model.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.chats {
		if s.chats[i].ID == chat.ID && s.chats[i].UserID == chat.UserID {
			for j := range messages {
				if messages[j].ID == "" {
					messages[j].ID = model.GenerateUUID()
				}
				messages[j].ChatID = chat.ID
			}
			s.chats[i].Messages = append(s.chats[i].Messages, messages...)
			s.chats[i].LastActivity = chat.LastActivity
			s.chats[i].TotalTokens = chat.TotalTokens
			s.chats[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return util.ErrChatNotFound
}

func (s *MemoryStore) SoftDeleteChat(userID, chatID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.chats {
		if s.chats[i].ID == chatID && s.chats[i].UserID == userID && s.chats[i].IsActive {
			s.chats[i].IsActive = false
			s.chats[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return util.ErrChatNotFound
}

// --- ProblemRepository ---

func (s *MemoryStore) CreateProblem(problem *model.Problem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	problem.ID = s.nextProblemID
	s.nextProblemID++
	now := time.Now()
	problem.CreatedAt = now
	problem.UpdatedAt = now
	s.problems = append(s.problems, *problem)
	return nil
}

func (s *MemoryStore) FindProblem(id uint) (*model.Problem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.problems {
		if s.problems[i].ID == id && s.problems[i].IsActive {
			p := s.problems[i]
			return &p, nil
		}
	}
	return nil, util.ErrProblemNotFound
}

func (s *MemoryStore) ListProblems(filter ProblemFilter, page, limit int) ([]model.Problem, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []model.Problem
	for i := range s.problems {
		p := s.problems[i]
		if !p.IsActive {
			continue
		}
		if filter.Subject != "" && p.Subject != filter.Subject {
			continue
		}
		if filter.Difficulty != "" && p.Difficulty != filter.Difficulty {
			continue
		}
		if filter.Type != "" && p.Type != filter.Type {
			continue
		}
		matched = append(matched, p)
	}
	sort.SliceStable(matched, func(a, b int) bool {
		return matched[a].CreatedAt.After(matched[b].CreatedAt)
	})
	return paginate(matched, page, limit), int64(len(matched)), nil
}

func (s *MemoryStore) UpdateProblem(problem *model.Problem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.problems {
		if s.problems[i].ID == problem.ID {
			problem.UpdatedAt = time.Now()
			s.problems[i] = *problem
			return nil
		}
	}
	return util.ErrProblemNotFound
}

// --- ExamRepository ---

func (s *MemoryStore) CreateExam(exam *model.Exam) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	exam.ID = s.nextExamID
	s.nextExamID++
	now := time.Now()
	exam.CreatedAt = now
	exam.UpdatedAt = now
	for i := range exam.Questions {
		exam.Questions[i].ID = uint(i + 1)
		exam.Questions[i].ExamID = exam.ID
	}
	s.exams = append(s.exams, *exam)
	return nil
}

func (s *MemoryStore) FindExam(id uint) (*model.Exam, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.exams {
		if s.exams[i].ID == id && s.exams[i].IsActive {
			e := s.exams[i]
			e.Questions = append([]model.ExamQuestion(nil), e.Questions...)
			e.Submissions = append([]model.ExamSubmission(nil), e.Submissions...)
			return &e, nil
		}
	}
	return nil, util.ErrExamNotFound
}

func (s *MemoryStore) ListExams(filter ExamFilter, page, limit int) ([]model.Exam, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []model.Exam
	for i := range s.exams {
		e := s.exams[i]
		if !e.IsActive {
			continue
		}
		if filter.Subject != "" && e.Subject != filter.Subject {
			continue
		}
		if filter.Difficulty != "" && e.Difficulty != filter.Difficulty {
			continue
		}
		matched = append(matched, e)
	}
	sort.SliceStable(matched, func(a, b int) bool {
		return matched[a].CreatedAt.After(matched[b].CreatedAt)
	})
	return paginate(matched, page, limit), int64(len(matched)), nil
}

func (s *MemoryStore) UpdateExamStats(exam *model.Exam) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.exams {
		if s.exams[i].ID == exam.ID {
			s.exams[i].TimesTaken = exam.TimesTaken
			s.exams[i].AverageScore = exam.AverageScore
			s.exams[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return util.ErrExamNotFound
}

// CreateSubmission checks for an existing submission and appends under
// one critical section, so a concurrent double submit cannot slip in a
// second row.
func (s *MemoryStore) CreateSubmission(sub *model.ExamSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.exams {
		if s.exams[i].ID != sub.ExamID {
			continue
		}
		for j := range s.exams[i].Submissions {
			if s.exams[i].Submissions[j].UserID == sub.UserID {
				return util.ErrAlreadySubmitted
			}
		}
		sub.ID = s.nextSubID
		s.nextSubID++
		now := time.Now()
		sub.CreatedAt = now
		sub.UpdatedAt = now
		s.exams[i].Submissions = append(s.exams[i].Submissions, *sub)
		return nil
	}
	return util.ErrExamNotFound
}

func paginate[T any](items []T, page, limit int) []T {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return append([]T(nil), items[start:end]...)
}
