package model

import (
	"fmt"
	"math/rand/v2"
)

// SemesterOptions shapes the instances built by GenerateRawSemester
type SemesterOptions struct {
	Days                int
	SlotsPerDay         int
	Teachers            int
	Rooms               int
	Courses             int
	LecturesPerCourse   int
	PracticalsPerCourse int
	Curricula           int
	CoursesPerCurricula int
	DoubleProbability   float64
	UnavailableSlots    int // Unavailable periods per teacher
	ExternalSessions    int
}

func DefaultSemesterOptions() SemesterOptions {
	return SemesterOptions{
		Days:                5,
		SlotsPerDay:         6,
		Teachers:            6,
		Rooms:               4,
		Courses:             8,
		LecturesPerCourse:   2,
		PracticalsPerCourse: 1,
		Curricula:           3,
		CoursesPerCurricula: 3,
		DoubleProbability:   0.2,
		UnavailableSlots:    2,
		ExternalSessions:    1,
	}
}

// GenerateRawSemester builds a random, loosely constrained semester. The load stays well below the week's capacity so that feasible timetables exist
func GenerateRawSemester(r *rand.Rand, options SemesterOptions) RawSemester {
	rawSemester := RawSemester{
		Name:            "generated",
		DaysPerWeek:     options.Days,
		TimeSlotsPerDay: options.SlotsPerDay,
	}

	for i := range options.Rooms {
		rawSemester.Rooms = append(rawSemester.Rooms, RawRoom{
			Id: fmt.Sprintf("room-%d", i),
			Features: RawFeatures{
				Capacity:   30 + 20*(i%3),
				Projectors: i % 2,
				PCPool:     i%3 == 0,
				TeacherPC:  true,
			},
		})
	}

	for i := range options.Teachers {
		teacher := RawTeacher{Id: fmt.Sprintf("teacher-%d", i)}
		for range options.UnavailableSlots {
			teacher.Unavailable = append(teacher.Unavailable, RawPeriod{
				Day:      r.IntN(options.Days) + 1,
				TimeSlot: r.IntN(options.SlotsPerDay) + 1,
			})
		}
		teacher.Unfavorable = append(teacher.Unfavorable, RawPeriod{Day: r.IntN(options.Days) + 1, TimeSlot: options.SlotsPerDay})
		rawSemester.Teachers = append(rawSemester.Teachers, teacher)
	}

	for i := range options.Courses {
		course := RawCourse{Id: fmt.Sprintf("course-%d", i)}
		teacher := fmt.Sprintf("teacher-%d", i%options.Teachers)
		for j := range options.LecturesPerCourse {
			course.Lectures = append(course.Lectures, RawSession{
				Id:           fmt.Sprintf("course-%d-lecture-%d", i, j),
				Teacher:      teacher,
				Requirements: RawFeatures{Capacity: 30},
			})
		}
		for j := range options.PracticalsPerCourse {
			course.Practicals = append(course.Practicals, RawSession{
				Id:           fmt.Sprintf("course-%d-practical-%d", i, j),
				Teacher:      teacher,
				Double:       r.Float64() < options.DoubleProbability,
				Requirements: RawFeatures{Capacity: 20, PCPool: j%2 == 1},
			})
		}
		rawSemester.Courses = append(rawSemester.Courses, course)
	}

	// External sessions live in their own course and room so that they never collide with each other
	for i := range options.ExternalSessions {
		roomId := fmt.Sprintf("external-room-%d", i)
		rawSemester.Rooms = append(rawSemester.Rooms, RawRoom{Id: roomId, External: true, Features: RawFeatures{Capacity: 100}})
		rawSemester.Courses = append(rawSemester.Courses, RawCourse{
			Id: fmt.Sprintf("external-course-%d", i),
			Lectures: []RawSession{{
				Id:            fmt.Sprintf("external-session-%d", i),
				Teacher:       fmt.Sprintf("external-teacher-%d", i),
				External:      true,
				Room:          roomId,
				PreAssignment: &RawPeriod{Day: i%options.Days + 1, TimeSlot: 1},
			}},
		})
		rawSemester.Teachers = append(rawSemester.Teachers, RawTeacher{Id: fmt.Sprintf("external-teacher-%d", i)})
	}

	for i := range options.Curricula {
		curriculum := RawCurriculum{Id: fmt.Sprintf("curriculum-%d", i)}
		for j := range options.CoursesPerCurricula {
			curriculum.Courses = append(curriculum.Courses, fmt.Sprintf("course-%d", (i*options.CoursesPerCurricula+j)%options.Courses))
		}
		rawSemester.Curricula = append(rawSemester.Curricula, curriculum)
	}

	return rawSemester
}

// GenerateSemester is GenerateRawSemester followed by ProcessRawSemester, it panics on invalid options
func GenerateSemester(r *rand.Rand, options SemesterOptions) *Semester {
	semester, err := ProcessRawSemester(GenerateRawSemester(r, options))
	if err != nil {
		panic(fmt.Sprintf("generated semester is invalid: %v", err))
	}
	return semester
}
