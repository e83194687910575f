package dummydb

import (
	"strconv"
	"sync"

	"github.com/learnifyhq/learnify/core/assignment"
	"github.com/learnifyhq/learnify/core/catalog"
	"github.com/learnifyhq/learnify/core/enrollment"
	"github.com/learnifyhq/learnify/core/evaluation"
	"github.com/learnifyhq/learnify/core/resource"
	"github.com/learnifyhq/learnify/core/user"
)

// DB is an in-memory stand-in for the document store. A single lock guards
// all tables so that cross-collection writes (child insert + counter bump)
// observe a consistent view, and composite-key uniqueness behaves like the
// store's unique indexes.
type DB struct {
	sync.RWMutex
	pkCount int

	users       map[string]*user.User
	requests    map[string]*catalog.TeacherRequest
	classes     map[string]*catalog.ClassOffering
	enrollments map[string]*enrollment.Enrollment
	assignments map[string]*assignment.Assignment
	submissions map[string]*assignment.Submission
	evaluations map[string]*evaluation.Evaluation
	payments    map[string]*enrollment.Payment
	resources   map[string]*resource.Resource
}

func Open() (*DB, error) {
	return &DB{
		users:       make(map[string]*user.User),
		requests:    make(map[string]*catalog.TeacherRequest),
		classes:     make(map[string]*catalog.ClassOffering),
		enrollments: make(map[string]*enrollment.Enrollment),
		assignments: make(map[string]*assignment.Assignment),
		submissions: make(map[string]*assignment.Submission),
		evaluations: make(map[string]*evaluation.Evaluation),
		payments:    make(map[string]*enrollment.Payment),
		resources:   make(map[string]*resource.Resource),
	}, nil
}

// nextID must be called with the write lock held.
func (db *DB) nextID() string {
	db.pkCount++
	return strconv.Itoa(db.pkCount)
}

// idLess orders the numeric string ids nextID hands out.
func idLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
