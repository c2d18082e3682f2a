package bundledb

import (
	"github.com/kncumilla-crypto/attendance-system/core/course"
)

// courseRepository implements course.Repository over the bundle.
type courseRepository struct {
	db *DB
}

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) QueryAllCourses() ([]course.Course, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	courses := make([]course.Course, 0, len(repo.db.courses))
	for _, crs := range repo.db.courses {
		courses = append(courses, crs.Clone())
	}
	return courses, nil
}

func (repo *courseRepository) GetCourseByID(id string) (course.Course, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if i := repo.index(id); i >= 0 {
		return repo.db.courses[i].Clone(), nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) CreateCourse(crs course.Course) (course.Course, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.index(crs.ID) >= 0 {
		return course.Course{}, course.ErrCourseExists
	}
	repo.db.courses = append(repo.db.courses, crs.Clone())
	if err := repo.db.save(); err != nil {
		return course.Course{}, err
	}
	return crs, nil
}

func (repo *courseRepository) UpdateCourse(crs course.Course) (course.Course, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	i := repo.index(crs.ID)
	if i < 0 {
		return course.Course{}, course.ErrNotFound
	}
	repo.db.courses[i] = crs.Clone()
	if err := repo.db.save(); err != nil {
		return course.Course{}, err
	}
	return crs, nil
}

func (repo *courseRepository) DeleteCourseByID(id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	i := repo.index(id)
	if i < 0 {
		return course.ErrNotFound
	}
	repo.db.courses = append(repo.db.courses[:i], repo.db.courses[i+1:]...)
	return repo.db.save()
}

func (repo *courseRepository) SetAttendance(courseID, date, studentID, status string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	i := repo.index(courseID)
	if i < 0 {
		return course.ErrNotFound
	}
	crs := &repo.db.courses[i]
	if crs.Attendance == nil {
		crs.Attendance = make(map[string]map[string]string)
	}
	if crs.Attendance[date] == nil {
		crs.Attendance[date] = make(map[string]string)
	}
	crs.Attendance[date][studentID] = status
	return repo.db.save()
}

// index returns the position of a course by id, or -1. Callers hold db.mu.
func (repo *courseRepository) index(id string) int {
	for i, crs := range repo.db.courses {
		if crs.ID == id {
			return i
		}
	}
	return -1
}
