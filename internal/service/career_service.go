package service

import (
	"acaia_backend/internal/util"
	"strings"
	"time"
)

type CareerService struct {
	ai AIClient
}

func NewCareerService(ai AIClient) *CareerService {
	return &CareerService{ai: ai}
}

// CareerPath is a static catalogue entry.
type CareerPath struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	Salary      string   `json:"salary"`
	Demand      string   `json:"demand"`
	Education   string   `json:"education"`
}

type LearningStep struct {
	Step        int    `json:"step"`
	Title       string `json:"title"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type LearningPath struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Steps         []LearningStep `json:"steps"`
	TotalDuration string         `json:"totalDuration"`
	Level         string         `json:"level"`
}

var careerPaths = []CareerPath{
	{
		ID:          "software-engineer",
		Title:       "Software Engineer",
		Description: "Razvoj softvera i aplikacija",
		Skills:      []string{"programming", "problem-solving", "teamwork"},
		Salary:      "€50,000 - €100,000",
		Demand:      "high",
		Education:   "Bachelor's degree in Computer Science",
	},
	{
		ID:          "data-scientist",
		Title:       "Data Scientist",
		Description: "Analiza podataka i mašinsko učenje",
		Skills:      []string{"statistics", "programming", "machine-learning"},
		Salary:      "€60,000 - €120,000",
		Demand:      "very high",
		Education:   "Master's degree in Data Science",
	},
	{
		ID:          "mathematics-teacher",
		Title:       "Mathematics Teacher",
		Description: "Predavanje matematike u školama",
		Skills:      []string{"teaching", "mathematics", "communication"},
		Salary:      "€30,000 - €60,000",
		Demand:      "medium",
		Education:   "Bachelor's degree in Mathematics + Teaching certification",
	},
}

// learningPaths is keyed by path id, then by level.
var learningPaths = map[string]map[string]LearningPath{
	"web-development": {
		"beginner": {
			ID:          "web-development",
			Title:       "Web Development",
			Description: "Put do postajanja web developera",
			Steps: []LearningStep{
				{Step: 1, Title: "HTML & CSS", Duration: "2-3 nedelje", Description: "Osnove HTML-a i CSS-a"},
				{Step: 2, Title: "JavaScript", Duration: "4-6 nedelja", Description: "Programski jezik JavaScript"},
				{Step: 3, Title: "React", Duration: "6-8 nedelja", Description: "React framework"},
				{Step: 4, Title: "Backend Development", Duration: "8-12 nedelja", Description: "Node.js i Express"},
			},
			TotalDuration: "20-29 nedelja",
			Level:         "beginner",
		},
		"intermediate": {
			ID:          "web-development",
			Title:       "Web Development",
			Description: "Produbljivanje web development veština",
			Steps: []LearningStep{
				{Step: 1, Title: "TypeScript", Duration: "3-4 nedelje", Description: "Tipiziran JavaScript"},
				{Step: 2, Title: "Testing", Duration: "3-4 nedelje", Description: "Testiranje frontend i backend koda"},
				{Step: 3, Title: "Architecture", Duration: "6-8 nedelja", Description: "Arhitektura većih aplikacija"},
				{Step: 4, Title: "DevOps Basics", Duration: "4-6 nedelja", Description: "CI/CD i deployment"},
			},
			TotalDuration: "16-22 nedelje",
			Level:         "intermediate",
		},
	},
	"data-science": {
		"beginner": {
			ID:          "data-science",
			Title:       "Data Science",
			Description: "Put do postajanja data scientist-a",
			Steps: []LearningStep{
				{Step: 1, Title: "Python", Duration: "4-6 nedelja", Description: "Osnove Python-a"},
				{Step: 2, Title: "Statistics", Duration: "6-8 nedelja", Description: "Statistička analiza"},
				{Step: 3, Title: "Machine Learning", Duration: "8-12 nedelja", Description: "Mašinsko učenje"},
				{Step: 4, Title: "Deep Learning", Duration: "10-14 nedelja", Description: "Duboko učenje"},
			},
			TotalDuration: "28-40 nedelja",
			Level:         "beginner",
		},
		"intermediate": {
			ID:          "data-science",
			Title:       "Data Science",
			Description: "Napredne data science tehnike",
			Steps: []LearningStep{
				{Step: 1, Title: "Feature Engineering", Duration: "4-6 nedelja", Description: "Priprema i transformacija podataka"},
				{Step: 2, Title: "Model Deployment", Duration: "4-6 nedelja", Description: "Produkcioni ML sistemi"},
				{Step: 3, Title: "MLOps", Duration: "6-8 nedelja", Description: "Automatizacija ML procesa"},
			},
			TotalDuration: "14-20 nedelja",
			Level:         "intermediate",
		},
	},
}

// Paths filters the static catalogue. A subject match means the subject
// appears as a substring of any of the path's skills.
func (s *CareerService) Paths(subject string) []CareerPath {
	if subject == "" {
		return careerPaths
	}
	subject = strings.ToLower(subject)
	var matched []CareerPath
	for _, path := range careerPaths {
		for _, skill := range path.Skills {
			if strings.Contains(strings.ToLower(skill), subject) {
				matched = append(matched, path)
				break
			}
		}
	}
	return matched
}

// GetLearningPath resolves the nested path-id, level table. Both keys
// must exist.
func (s *CareerService) GetLearningPath(pathID, level string) (*LearningPath, error) {
	if level == "" {
		level = "beginner"
	}
	levels, ok := learningPaths[pathID]
	if !ok {
		return nil, util.ErrCareerPathNotFound
	}
	path, ok := levels[level]
	if !ok {
		return nil, util.ErrCareerPathNotFound
	}
	return &path, nil
}

type SkillScores struct {
	Programming    float64 `json:"programming"`
	Design         float64 `json:"design"`
	Analysis       float64 `json:"analysis"`
	Communication  float64 `json:"communication"`
	ProblemSolving float64 `json:"problemSolving"`
}

type SkillAssessment struct {
	TechnicalSkills SkillScores `json:"technicalSkills"`
	OverallScore    float64     `json:"overallScore"`
	Recommendations []string    `json:"recommendations"`
	CareerMatches   []string    `json:"careerMatches"`
	AssessedAt      time.Time   `json:"assessedAt"`
}

func capScore(score float64) float64 {
	if score > 100 {
		return 100
	}
	return score
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// AssessSkills scores five categories with fixed weights, capped at 100,
// and recommends career directions for every category above 70.
func (s *CareerService) AssessSkills(skills []string, experience float64) *SkillAssessment {
	assessment := &SkillAssessment{
		Recommendations: []string{},
		CareerMatches:   []string{},
		AssessedAt:      time.Now(),
	}

	if contains(skills, "programming") {
		assessment.TechnicalSkills.Programming = capScore(experience * 10)
	}
	if contains(skills, "design") {
		assessment.TechnicalSkills.Design = capScore(experience * 8)
	}
	if contains(skills, "analysis") {
		assessment.TechnicalSkills.Analysis = capScore(experience * 12)
	}
	assessment.TechnicalSkills.Communication = capScore(experience * 15)
	assessment.TechnicalSkills.ProblemSolving = capScore(experience * 20)

	assessment.OverallScore = (assessment.TechnicalSkills.Programming +
		assessment.TechnicalSkills.Design +
		assessment.TechnicalSkills.Analysis +
		assessment.TechnicalSkills.Communication +
		assessment.TechnicalSkills.ProblemSolving) / 5

	if assessment.TechnicalSkills.Programming > 70 {
		assessment.Recommendations = append(assessment.Recommendations, "Razmotrite karijeru u software development-u")
		assessment.CareerMatches = append(assessment.CareerMatches, "Software Developer", "Full Stack Developer")
	}
	if assessment.TechnicalSkills.Design > 70 {
		assessment.Recommendations = append(assessment.Recommendations, "Razmotrite karijeru u web design-u")
		assessment.CareerMatches = append(assessment.CareerMatches, "Web Designer", "UI/UX Designer")
	}
	if assessment.TechnicalSkills.Analysis > 70 {
		assessment.Recommendations = append(assessment.Recommendations, "Razmotrite karijeru u data science-u")
		assessment.CareerMatches = append(assessment.CareerMatches, "Data Analyst", "Data Scientist")
	}

	if len(assessment.Recommendations) == 0 {
		assessment.Recommendations = append(assessment.Recommendations,
			"Fokusirajte se na razvoj osnovnih veština",
			"Počnite sa osnovama programiranja ili dizajna")
	}

	return assessment
}

// Advice delegates entirely to the AI client.
func (s *CareerService) Advice(profile CareerProfile) (*CareerAdviceResult, error) {
	if profile.CurrentSkills == nil {
		profile.CurrentSkills = []string{}
	}
	if profile.Interests == nil {
		profile.Interests = []string{}
	}
	return s.ai.CareerAdvice(profile)
}
