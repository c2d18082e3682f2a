package main

import (
	"github.com/kncumilla-crypto/attendance-system/core"
	"github.com/kncumilla-crypto/attendance-system/core/course"
)

// seedDemoCourses loads the demonstration courses into an empty store.
func seedDemoCourses(svc *course.Service, logger core.Logger) error {
	existing, err := svc.QueryAll()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	demos := []struct {
		course   course.NewCourse
		students []course.NewStudent
	}{
		{
			course: course.NewCourse{
				ID:      "PHIL101",
				Name:    "Introduction to Philosophy",
				Teacher: "Dr. Ahmed Hossain",
				Cohort:  course.CohortFirstYear,
			},
			students: []course.NewStudent{
				{ID: "2023001", Name: "Rahim Ahmed"},
				{ID: "2023002", Name: "Karim Khan"},
				{ID: "2023003", Name: "Salma Begum"},
				{ID: "2023004", Name: "Jamal Uddin"},
			},
		},
		{
			course: course.NewCourse{
				ID:      "PHIL201",
				Name:    "Ethics and Moral Philosophy",
				Teacher: "Prof. Fatima Rahman",
				Cohort:  course.CohortSecondYear,
			},
			students: []course.NewStudent{
				{ID: "2022001", Name: "Ayesha Akter"},
				{ID: "2022002", Name: "Sohel Rana"},
			},
		},
	}

	for _, demo := range demos {
		if _, err := svc.Create(demo.course); err != nil {
			return err
		}
		for _, std := range demo.students {
			if _, err := svc.AddStudent(demo.course.ID, std); err != nil {
				return err
			}
		}
	}
	logger.Info("demo courses seeded")
	return nil
}
