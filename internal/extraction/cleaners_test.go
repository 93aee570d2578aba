package extraction

import (
	"fmt"
	"testing"
	"time"

	"github.com/spigell/resume-scorer/internal/duration"
	"github.com/stretchr/testify/assert"
)

func fixedResolver() *duration.Resolver {
	return duration.New(duration.WithNow(func() time.Time {
		return time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	}))
}

func TestCleanSkills(t *testing.T) {
	answer := "python, SQL, Team Leadership, 2020, John Smith, Communication skills, " +
		"Machine Learning Engineering Methods Extra, Go, Docker\nreact native • git; Python | Kotlin"

	assert.Equal(t,
		[]string{"Python", "Sql", "Docker", "React Native", "Git", "Kotlin"},
		CleanSkills(answer),
	)
}

func TestCleanSkillsCapsList(t *testing.T) {
	var answer string
	for i := range 20 {
		answer += fmt.Sprintf("python%c, ", 'a'+rune(i))
	}

	got := CleanSkills(answer)
	assert.Len(t, got, MaxSkills)
	assert.Equal(t, "Pythona", got[0])
}

func TestCleanEducation(t *testing.T) {
	answer := "BSc Computer Science, University of Nairobi 2016-2020, Data Science Certificate, " +
		"Team Lead, MSc, diploma in IT 2015, BSc Computer Science"

	assert.Equal(t,
		[]string{"BSc Computer Science", "University of Nairobi", "diploma in IT"},
		CleanEducation(answer, ""),
	)
}

func TestCleanEducationFallsBackToDegreePatterns(t *testing.T) {
	raw := "EDUCATION\nBachelor of Science in Statistics, Egerton University. Master of Arts. " +
		"Diploma in Business Management."

	assert.Equal(t,
		[]string{"Bachelor of Science in Statistics", "Master of Arts"},
		CleanEducation("Team Lead", raw),
	)
	assert.Empty(t, CleanEducation("", "no degrees here"))
}

func TestWorkCleanerFromAnswer(t *testing.T) {
	answer := "Business Analyst at Safaricom (2019-2022), Software Engineer with Acme 2020 - present, " +
		"Intern, Bachelor of Science 2015-2019, Senior Backend Developer 2022, Data Entry Clerk 2018, " +
		"Cashier at Shop (2010-2012), Business Analyst at Safaricom (2019-2022)"

	got := NewWorkCleaner(fixedResolver()).Clean(answer, "")
	assert.Equal(t, []string{
		"Business Analyst (2019-2022, 3 yrs)",
		"Software Engineer (5 yrs)",
		"Senior Backend Developer (Since 2022)",
	}, got)
}

func TestWorkCleanerFallsBackToRawText(t *testing.T) {
	raw := "JHUB AFRICA 2023-PRESENT\nKENYA NATIONAL BUREAU 2019 - 2021\nEGERTON UNIVERSITY 2014-2018"

	got := NewWorkCleaner(fixedResolver()).Clean("", raw)
	assert.Equal(t, []string{
		"Jhub Africa (2 yrs)",
		"Kenya National Bureau (2019-2021, 2 yrs)",
	}, got)
}

func TestJobTitle(t *testing.T) {
	tests := map[string]string{
		"Senior Software Engineer responsible and adept":  "senior software engineer",
		"Product Manager 2019":                            "Product Manager",
		"Data Scientist":                                  "",
		"Chief Technology Officer Of The Big Company Ltd": "Chief Technology Officer Of The Big",
		"QA (Tester)":                                     "QA Tester",
		"Go 1 Dev":                                        "",
	}
	for in, want := range tests {
		assert.Equal(t, want, jobTitle(in), in)
	}
}
