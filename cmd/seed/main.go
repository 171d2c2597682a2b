package main

import (
	"log"
	"os"
	"time"

	"exam-proctoring-be/internal/model"
	"exam-proctoring-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding Exam Papers...")

	papers := []model.ExamPaper{
		{
			Title:           "General Knowledge Assessment",
			Subject:         "General Knowledge",
			Description:     "A short multiple choice assessment covering general knowledge.",
			DurationMinutes: 30,
			ExamDate:        time.Now().Add(24 * time.Hour),
			TotalMarks:      5,
			PassingMarks:    3,
			IsActive:        true,
		},
		{
			Title:           "Computer Science Fundamentals",
			Subject:         "Computer Science",
			Description:     "Data structures, networking and operating systems basics.",
			DurationMinutes: 45,
			ExamDate:        time.Now().Add(48 * time.Hour),
			TotalMarks:      5,
			PassingMarks:    3,
			IsActive:        true,
		},
	}

	for i := range papers {
		paper := &papers[i]

		var existing model.ExamPaper
		if err := db.Where("title = ?", paper.Title).First(&existing).Error; err == nil {
			color.Yellow("Paper '%s' already exists, skipping...", paper.Title)
			continue
		}

		if err := db.Create(paper).Error; err != nil {
			color.Red("Error creating paper '%s': %v", paper.Title, err)
			continue
		}

		seedQuestions(db, paper)
		color.Green("Created paper: %s (%d questions)", paper.Title, len(questionsFor(paper.Subject)))
	}

	color.Cyan("Exam paper seeding completed!")
}

func seedQuestions(db *gorm.DB, paper *model.ExamPaper) {
	for _, q := range questionsFor(paper.Subject) {
		q.ExamPaperId = paper.Id
		if err := db.Create(&q).Error; err != nil {
			color.Red("Error creating question for '%s': %v", paper.Title, err)
		}
	}
}

func questionsFor(subject string) []model.Question {
	if subject == "Computer Science" {
		return []model.Question{
			{QuestionText: "Which data structure uses FIFO ordering?", QuestionType: "mcq", OptionA: "Stack", OptionB: "Queue", OptionC: "Tree", OptionD: "Graph", CorrectAnswer: "B", Marks: 1, SortOrder: 1},
			{QuestionText: "What does TCP stand for?", QuestionType: "mcq", OptionA: "Transmission Control Protocol", OptionB: "Transfer Call Protocol", OptionC: "Timed Control Packet", OptionD: "Transport Connection Point", CorrectAnswer: "A", Marks: 1, SortOrder: 2},
			{QuestionText: "Which scheduling algorithm can cause starvation?", QuestionType: "mcq", OptionA: "Round Robin", OptionB: "FCFS", OptionC: "Priority Scheduling", OptionD: "Lottery", CorrectAnswer: "C", Marks: 1, SortOrder: 3},
			{QuestionText: "What is the worst-case lookup in a balanced BST?", QuestionType: "mcq", OptionA: "O(1)", OptionB: "O(log n)", OptionC: "O(n)", OptionD: "O(n log n)", CorrectAnswer: "B", Marks: 1, SortOrder: 4},
			{QuestionText: "Which layer of the OSI model handles routing?", QuestionType: "mcq", OptionA: "Transport", OptionB: "Session", OptionC: "Data Link", OptionD: "Network", CorrectAnswer: "D", Marks: 1, SortOrder: 5},
		}
	}
	return []model.Question{
		{QuestionText: "Which planet is known as the Red Planet?", QuestionType: "mcq", OptionA: "Venus", OptionB: "Mars", OptionC: "Jupiter", OptionD: "Saturn", CorrectAnswer: "B", Marks: 1, SortOrder: 1},
		{QuestionText: "What is the capital of Japan?", QuestionType: "mcq", OptionA: "Tokyo", OptionB: "Kyoto", OptionC: "Osaka", OptionD: "Nagoya", CorrectAnswer: "A", Marks: 1, SortOrder: 2},
		{QuestionText: "How many continents are there?", QuestionType: "mcq", OptionA: "Five", OptionB: "Six", OptionC: "Seven", OptionD: "Eight", CorrectAnswer: "C", Marks: 1, SortOrder: 3},
		{QuestionText: "Which gas do plants absorb from the atmosphere?", QuestionType: "mcq", OptionA: "Oxygen", OptionB: "Nitrogen", OptionC: "Hydrogen", OptionD: "Carbon Dioxide", CorrectAnswer: "D", Marks: 1, SortOrder: 4},
		{QuestionText: "Who wrote 'Romeo and Juliet'?", QuestionType: "mcq", OptionA: "Charles Dickens", OptionB: "William Shakespeare", OptionC: "Jane Austen", OptionD: "Mark Twain", CorrectAnswer: "B", Marks: 1, SortOrder: 5},
	}
}
