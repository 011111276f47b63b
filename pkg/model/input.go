package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

type RawPeriod struct {
	Day      int `validate:"gte=1"`
	TimeSlot int `validate:"gte=1"`
}

type RawFeatures struct {
	Capacity   int `validate:"gte=0"`
	Projectors int `validate:"gte=0"`
	PCPool     bool
	TeacherPC  bool
	DocCam     bool
}

type RawRoom struct {
	Id       string `validate:"required"`
	Name     string
	External bool
	Features RawFeatures
}

type RawTeacher struct {
	Id          string `validate:"required"`
	Name        string
	Unavailable []RawPeriod `validate:"dive"`
	Unfavorable []RawPeriod `validate:"dive"`
}

type RawSession struct {
	Id            string `validate:"required"`
	Name          string
	Teacher       string `validate:"required"`
	External      bool
	Double        bool
	Requirements  RawFeatures
	PreAssignment *RawPeriod `validate:"omitempty"`
	Room          string // Only meaningful for external sessions
}

type RawCourse struct {
	Id         string `validate:"required"`
	Name       string
	Lectures   []RawSession `validate:"dive"`
	Practicals []RawSession `validate:"dive"`
}

type RawCurriculum struct {
	Id      string `validate:"required"`
	Name    string
	Courses []string
}

type RawSemester struct {
	Name            string
	DaysPerWeek     int             `validate:"gte=1,lte=7"`
	TimeSlotsPerDay int             `validate:"gte=1"`
	Rooms           []RawRoom       `validate:"dive"`
	Teachers        []RawTeacher    `validate:"dive"`
	Courses         []RawCourse     `validate:"dive"`
	Curricula       []RawCurriculum `validate:"dive"`
}

var rawValidator = validator.New()

// SemesterFromFile picks the decoder according to the file's extension
func SemesterFromFile(file string) (*Semester, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return SemesterFromYaml(file)
	default:
		return SemesterFromJson(file)
	}
}

func SemesterFromJson(file string) (*Semester, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return nil, err
	}
	return decodeSemester(inputJson)
}

func SemesterFromYaml(file string) (*Semester, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var inputYaml map[string]any
	if err := yaml.Unmarshal(bytes, &inputYaml); err != nil {
		return nil, err
	}
	return decodeSemester(inputYaml)
}

func decodeSemester(input map[string]any) (*Semester, error) {
	var rawSemester RawSemester
	if err := mapstructure.Decode(input, &rawSemester); err != nil {
		return nil, fmt.Errorf("cannot decode semester: %w", err)
	}
	return ProcessRawSemester(rawSemester)
}

func ProcessRawSemester(rawSemester RawSemester) (*Semester, error) {
	if err := rawValidator.Struct(rawSemester); err != nil {
		return nil, fmt.Errorf("invalid semester: %w", err)
	}

	semester := &Semester{
		Name:            rawSemester.Name,
		DaysPerWeek:     rawSemester.DaysPerWeek,
		TimeSlotsPerDay: rawSemester.TimeSlotsPerDay,
	}
	periodOf := func(raw RawPeriod, owner string) (Period, error) {
		period := NewPeriod(raw.Day, raw.TimeSlot)
		if !period.Valid(semester.DaysPerWeek, semester.TimeSlotsPerDay) {
			return Period{}, fmt.Errorf("period %v of \"%v\" is outside of the %dx%d week", period, owner, semester.DaysPerWeek, semester.TimeSlotsPerDay)
		}
		return period, nil
	}

	//** Manage rooms
	rooms := make(map[string]*Room)
	for _, rawRoom := range rawSemester.Rooms {
		if _, ok := rooms[rawRoom.Id]; ok {
			return nil, fmt.Errorf("duplicate room \"%v\"", rawRoom.Id)
		}
		room := &Room{
			Id:       rawRoom.Id,
			Name:     lo.Ternary(rawRoom.Name != "", rawRoom.Name, rawRoom.Id),
			Kind:     lo.Ternary(rawRoom.External, ExternalRoom, InternalRoom),
			Features: RoomFeatures(rawRoom.Features),
		}
		rooms[room.Id] = room
		semester.Rooms = append(semester.Rooms, room)
	}

	//** Manage teachers
	teachers := make(map[string]*Teacher)
	for _, rawTeacher := range rawSemester.Teachers {
		if _, ok := teachers[rawTeacher.Id]; ok {
			return nil, fmt.Errorf("duplicate teacher \"%v\"", rawTeacher.Id)
		}
		teacher := &Teacher{
			Id:   rawTeacher.Id,
			Name: lo.Ternary(rawTeacher.Name != "", rawTeacher.Name, rawTeacher.Id),
		}
		for _, rawPeriod := range rawTeacher.Unavailable {
			period, err := periodOf(rawPeriod, teacher.Name)
			if err != nil {
				return nil, err
			}
			teacher.Unavailable = append(teacher.Unavailable, period)
		}
		for _, rawPeriod := range rawTeacher.Unfavorable {
			period, err := periodOf(rawPeriod, teacher.Name)
			if err != nil {
				return nil, err
			}
			teacher.Unfavorable = append(teacher.Unfavorable, period)
		}
		teachers[teacher.Id] = teacher
		semester.Teachers = append(semester.Teachers, teacher)
	}

	//** Manage courses and their sessions
	courses := make(map[string]*Course)
	sessionIds := make(map[string]bool)
	for _, rawCourse := range rawSemester.Courses {
		if _, ok := courses[rawCourse.Id]; ok {
			return nil, fmt.Errorf("duplicate course \"%v\"", rawCourse.Id)
		}
		course := &Course{
			Id:   rawCourse.Id,
			Name: lo.Ternary(rawCourse.Name != "", rawCourse.Name, rawCourse.Id),
		}
		if len(rawCourse.Lectures) > semester.DaysPerWeek {
			return nil, fmt.Errorf("course \"%v\" has %d lectures but lectures of a course must be on different days and the week has %d days", course.Name, len(rawCourse.Lectures), semester.DaysPerWeek)
		}

		buildSession := func(rawSession RawSession) (*Session, error) {
			if sessionIds[rawSession.Id] {
				return nil, fmt.Errorf("duplicate session \"%v\"", rawSession.Id)
			}
			sessionIds[rawSession.Id] = true

			teacher, ok := teachers[rawSession.Teacher]
			if !ok {
				return nil, fmt.Errorf("session \"%v\" references unknown teacher \"%v\"", rawSession.Id, rawSession.Teacher)
			}
			session := &Session{
				Id:           rawSession.Id,
				Name:         lo.Ternary(rawSession.Name != "", rawSession.Name, rawSession.Id),
				Kind:         lo.Ternary(rawSession.External, ExternalSession, InternalSession),
				Course:       course,
				Teacher:      teacher,
				Requirements: RoomFeatures(rawSession.Requirements),
				Double:       rawSession.Double,
			}
			if rawSession.PreAssignment != nil {
				period, err := periodOf(*rawSession.PreAssignment, session.Id)
				if err != nil {
					return nil, err
				}
				if session.Double && period.TimeSlot == semester.TimeSlotsPerDay {
					return nil, fmt.Errorf("double session \"%v\" cannot be pre-assigned to the last time-slot of a day", session.Id)
				}
				session.FixedPeriod = &period
			}

			// Verify the tagged variant: external sessions are pinned to a room and a period, internal ones are never bound to a room
			if session.External() {
				room, ok := rooms[rawSession.Room]
				if !ok {
					return nil, fmt.Errorf("external session \"%v\" references unknown room \"%v\"", session.Id, rawSession.Room)
				} else if room.Internal() {
					return nil, fmt.Errorf("external session \"%v\" must be bound to an external room, \"%v\" is internal", session.Id, room.Name)
				} else if session.FixedPeriod == nil {
					return nil, fmt.Errorf("external session \"%v\" must have a pre-assignment", session.Id)
				}
				session.FixedRoom = room
			} else if rawSession.Room != "" {
				return nil, fmt.Errorf("internal session \"%v\" cannot be bound to room \"%v\"", session.Id, rawSession.Room)
			}
			return session, nil
		}

		for _, rawSession := range rawCourse.Lectures {
			session, err := buildSession(rawSession)
			if err != nil {
				return nil, err
			}
			course.Lectures = append(course.Lectures, session)
		}
		for _, rawSession := range rawCourse.Practicals {
			session, err := buildSession(rawSession)
			if err != nil {
				return nil, err
			}
			course.Practicals = append(course.Practicals, session)
		}
		courses[course.Id] = course
		semester.Courses = append(semester.Courses, course)
	}

	//** Manage curricula
	curriculumIds := make(map[string]bool)
	for _, rawCurriculum := range rawSemester.Curricula {
		if curriculumIds[rawCurriculum.Id] {
			return nil, fmt.Errorf("duplicate curriculum \"%v\"", rawCurriculum.Id)
		}
		curriculumIds[rawCurriculum.Id] = true

		curriculum := &Curriculum{
			Id:   rawCurriculum.Id,
			Name: lo.Ternary(rawCurriculum.Name != "", rawCurriculum.Name, rawCurriculum.Id),
		}
		for _, courseId := range lo.Uniq(rawCurriculum.Courses) {
			course, ok := courses[courseId]
			if !ok {
				return nil, fmt.Errorf("curriculum \"%v\" references unknown course \"%v\"", curriculum.Id, courseId)
			}
			curriculum.Courses = append(curriculum.Courses, course)
		}
		semester.Curricula = append(semester.Curricula, curriculum)
	}

	semester.Link()
	return semester, nil
}
