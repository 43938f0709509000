package service

import (
	"context"
	"errors"
	"sort"

	"learnpath_backend/internal/model"
	"learnpath_backend/internal/progression"
	"learnpath_backend/internal/util"
)

var errBackend = errors.New("backend unavailable")

// rawScenarioPath: U1 = [M1, M2] + T1, U2 = [M3], final test F.
func rawScenarioPath() *model.LearningPath {
	unitID := "U1"
	return &model.LearningPath{
		UUIDBase: model.UUIDBase{ID: "P1"},
		Title:    "Go 入门",
		Level:    model.LevelBeginner,
		Units: []model.Unit{
			{
				UUIDBase:    model.UUIDBase{ID: "U2"},
				Title:       "并发",
				OrderNumber: 2,
				Modules: []model.Module{
					{UUIDBase: model.UUIDBase{ID: "M3"}, Title: "goroutine", ContentType: model.ContentText, Content: "go f()", OrderNumber: 1},
				},
			},
			{
				UUIDBase:    model.UUIDBase{ID: "U1"},
				Title:       "基础",
				OrderNumber: 1,
				Modules: []model.Module{
					{UUIDBase: model.UUIDBase{ID: "M2"}, Title: "变量", ContentType: model.ContentVideo, FileKey: "videos/m2.mp4", OrderNumber: 2},
					{UUIDBase: model.UUIDBase{ID: "M1"}, Title: "安装", ContentType: model.ContentPDF, FileKey: "docs/m1.pdf", OrderNumber: 1},
				},
				Test: &model.Test{UUIDBase: model.UUIDBase{ID: "T1"}, UnitID: &unitID, Name: "单元测试", TestType: model.TestTypeUnit, PassPercentage: 60,
					Questions: []model.Question{{UUIDBase: model.UUIDBase{ID: "Q1"}}, {UUIDBase: model.UUIDBase{ID: "Q2"}}}},
			},
		},
		FinalTest: &model.Test{UUIDBase: model.UUIDBase{ID: "F"}, Name: "结业测试", TestType: model.TestTypeFinal, PassPercentage: 70},
	}
}

type fakePaths struct {
	paths map[string]*model.LearningPath
	err   error
}

func newFakePaths(paths ...*model.LearningPath) *fakePaths {
	f := &fakePaths{paths: make(map[string]*model.LearningPath)}
	for _, p := range paths {
		f.paths[p.ID] = p
	}
	return f
}

func (f *fakePaths) FetchPath(ctx context.Context, pathID string) (*model.LearningPath, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.paths[pathID]
	if !ok {
		return nil, util.ErrPathNotFound
	}
	return p, nil
}

type markCall struct {
	student, path, unit, module string
	ctxErr                      error
	hasDeadline                 bool
}

// fakeRepo stands in for repository.ProgressRepository.
type fakeRepo struct {
	rows    map[string]map[string]bool
	loadErr error
	saveErr error
	marks   []markCall
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[string]map[string]bool)}
}

func (f *fakeRepo) seed(student, path string, moduleIDs ...string) {
	key := student + "/" + path
	if f.rows[key] == nil {
		f.rows[key] = make(map[string]bool)
	}
	for _, id := range moduleIDs {
		f.rows[key][id] = true
	}
}

func (f *fakeRepo) CompletedModuleIDs(ctx context.Context, studentID, pathID string) ([]string, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	ids := []string{}
	for id := range f.rows[studentID+"/"+pathID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeRepo) MarkCompleted(ctx context.Context, studentID, pathID, unitID, moduleID string) error {
	_, hasDeadline := ctx.Deadline()
	f.marks = append(f.marks, markCall{studentID, pathID, unitID, moduleID, ctx.Err(), hasDeadline})
	if f.saveErr != nil {
		return f.saveErr
	}
	f.seed(studentID, pathID, moduleID)
	return nil
}

type fakeSessions struct {
	snaps  map[string]progression.Snapshot
	getErr error
	saves  int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{snaps: make(map[string]progression.Snapshot)}
}

func (f *fakeSessions) Get(ctx context.Context, learnerID, pathID string) (*progression.Snapshot, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.snaps[learnerID+"/"+pathID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeSessions) Save(ctx context.Context, learnerID, pathID string, snap progression.Snapshot) error {
	f.saves++
	f.snaps[learnerID+"/"+pathID] = snap
	return nil
}

type fakeStorage struct{}

func (fakeStorage) GetURL(ctx context.Context, key string) (string, error) {
	return "https://cdn.example.com/" + key, nil
}

type testEnv struct {
	repo     *fakeRepo
	sessions *fakeSessions
	svc      *LearningPathService
}

func newTestEnv() *testEnv {
	repo := newFakeRepo()
	sessions := newFakeSessions()
	svc := NewLearningPathService(
		newFakePaths(rawScenarioPath()),
		NewProgressService(repo, 0),
		sessions,
		fakeStorage{},
	)
	return &testEnv{repo: repo, sessions: sessions, svc: svc}
}
