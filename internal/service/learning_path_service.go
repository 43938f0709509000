package service

import (
	"context"
	"errors"
	"fmt"

	"learnpath_backend/internal/curriculum"
	"learnpath_backend/internal/model"
	"learnpath_backend/internal/progression"
	"learnpath_backend/internal/util"
	"learnpath_backend/pkg/logger"
	"learnpath_backend/pkg/monitoring"
	"learnpath_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// PathSource 提供原始课程数据（repository.LearningPathRepository）
type PathSource interface {
	FetchPath(ctx context.Context, pathID string) (*model.LearningPath, error)
}

// SessionStore 保存导航快照（repository.NavigatorSessionRepository）
type SessionStore interface {
	Get(ctx context.Context, learnerID, pathID string) (*progression.Snapshot, error)
	Save(ctx context.Context, learnerID, pathID string, snap progression.Snapshot) error
}

// ContentURLResolver 把模块文件引用解析为下载地址（StorageService）
type ContentURLResolver interface {
	GetURL(ctx context.Context, key string) (string, error)
}

type ActionType string

const (
	ActionIntroduction    ActionType = "introduction"
	ActionSelectUnit      ActionType = "select_unit"
	ActionSelectModule    ActionType = "select_module"
	ActionSelectUnitTest  ActionType = "select_unit_test"
	ActionSelectFinalTest ActionType = "select_final_test"
	ActionAdvance         ActionType = "advance"
	ActionComplete        ActionType = "complete"
	ActionToggleUnit      ActionType = "toggle_unit"
	ActionToggleSidebar   ActionType = "toggle_sidebar"
)

// Action 一次导航操作。Narrow 为客户端视口提示，nil 表示沿用上次的值。
// Session 为客户端回传的快照，仅在没有服务端会话（匿名学员）时使用。
type Action struct {
	Type     ActionType
	UnitID   string
	ModuleID string
	Narrow   *bool
	Session  *progression.Snapshot
}

type ModuleView struct {
	ID              string                 `json:"id"`
	UnitID          string                 `json:"unitId"`
	Title           string                 `json:"title"`
	ContentType     curriculum.ContentType `json:"contentType"`
	Content         string                 `json:"content,omitempty"`
	ContentURL      string                 `json:"contentUrl,omitempty"`
	DurationMinutes int                    `json:"duration"`
	Completed       bool                   `json:"completed"`
}

type TestView struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Type           curriculum.TestType `json:"testType"`
	UnitID         string              `json:"unitId,omitempty"`
	QuestionCount  int                 `json:"questionCount"`
	PassPercentage int                 `json:"passPercentage"`
	TotalMarks     int                 `json:"totalMarks"`
}

type SelectionView struct {
	Kind     progression.StateKind `json:"kind"`
	UnitID   string                `json:"unitId,omitempty"`
	ModuleID string                `json:"moduleId,omitempty"`
	TestID   string                `json:"testId,omitempty"`
}

// NavigatorView 是返回给客户端的导航状态
type NavigatorView struct {
	PathID           string               `json:"pathId"`
	Anonymous        bool                 `json:"anonymous"`
	Selection        SelectionView        `json:"selection"`
	Module           *ModuleView          `json:"module,omitempty"`
	Test             *TestView            `json:"test,omitempty"`
	ResumeTarget     SelectionView        `json:"resumeTarget"`
	ExpandedUnits    []string             `json:"expandedUnits"`
	SidebarOpen      bool                 `json:"sidebarOpen"`
	CompletedModules []string             `json:"completedModules"`
	Progress         progression.Summary  `json:"progress"`
	PathComplete     bool                 `json:"pathComplete,omitempty"`
	FinalTest        *TestView            `json:"finalTest,omitempty"`
	Warning          string               `json:"warning,omitempty"`
	Session          progression.Snapshot `json:"session"`
}

type LearningPathService struct {
	Paths    PathSource
	Store    progression.ProgressStore
	Sessions SessionStore
	Storage  ContentURLResolver
}

func NewLearningPathService(paths PathSource, progress progression.ProgressStore, sessions SessionStore, storage ContentURLResolver) *LearningPathService {
	return &LearningPathService{
		Paths:    paths,
		Store:    progress,
		Sessions: sessions,
		Storage:  storage,
	}
}

// GetPath 读取并校验课程树
func (s *LearningPathService) GetPath(ctx context.Context, pathID string) (*curriculum.Path, error) {
	ctx, span := tracing.Tracer.Start(ctx, "LearningPathService.GetPath")
	defer span.End()
	span.SetAttributes(attribute.String("path.id", pathID))

	raw, err := s.Paths.FetchPath(ctx, pathID)
	if err != nil {
		return nil, err
	}
	path, err := curriculum.BuildTree(raw)
	if err != nil {
		logger.Log.Error("课程数据不完整", zap.String("pathId", pathID), zap.Error(err))
		return nil, err
	}
	return path, nil
}

// Open 对应一次页面加载：选择总是从续学位置开始，只恢复侧边栏状态
func (s *LearningPathService) Open(ctx context.Context, learnerID, pathID string, narrow *bool) (*NavigatorView, error) {
	nav, err := s.open(ctx, learnerID, pathID, false, nil)
	if err != nil {
		return nil, err
	}
	if narrow != nil {
		nav.View().SetNarrow(*narrow)
	}
	s.saveSession(ctx, nav)
	return s.view(ctx, nav, progression.Transition{}), nil
}

// Apply 在上一次保存的导航状态上执行一个操作。
// 非法选择只记录日志并返回未改变的状态；保存失败时返回 *progression.ProgressSaveError 以及未改变的状态。
func (s *LearningPathService) Apply(ctx context.Context, learnerID, pathID string, action Action) (*NavigatorView, error) {
	ctx, span := tracing.Tracer.Start(ctx, "LearningPathService.Apply")
	defer span.End()
	span.SetAttributes(attribute.String("path.id", pathID), attribute.String("action", string(action.Type)))

	nav, err := s.open(ctx, learnerID, pathID, true, action.Session)
	if err != nil {
		return nil, err
	}
	if action.Narrow != nil {
		nav.View().SetNarrow(*action.Narrow)
	}

	tr, err := s.dispatch(ctx, nav, action)

	var invalidErr *progression.InvalidSelectionError
	var saveErr *progression.ProgressSaveError
	switch {
	case err == nil:
		monitoring.NavigatorTransitions.WithLabelValues(string(action.Type), "ok").Inc()
	case errors.As(err, &invalidErr):
		monitoring.NavigatorTransitions.WithLabelValues(string(action.Type), "ignored").Inc()
		logger.Log.Warn("忽略非法导航操作",
			zap.String("learnerId", learnerID),
			zap.String("pathId", pathID),
			zap.String("action", string(action.Type)),
			zap.Error(err))
		v := s.view(ctx, nav, progression.Transition{})
		v.Warning = err.Error()
		return v, nil
	case errors.As(err, &saveErr):
		monitoring.NavigatorTransitions.WithLabelValues(string(action.Type), "save_failed").Inc()
		span.RecordError(err)
		return s.view(ctx, nav, progression.Transition{}), err
	default:
		monitoring.NavigatorTransitions.WithLabelValues(string(action.Type), "error").Inc()
		return nil, err
	}

	s.saveSession(ctx, nav)
	return s.view(ctx, nav, tr), nil
}

func (s *LearningPathService) dispatch(ctx context.Context, nav *progression.Navigator, action Action) (progression.Transition, error) {
	switch action.Type {
	case ActionIntroduction:
		nav.SelectIntroduction()
	case ActionSelectUnit:
		return progression.Transition{}, nav.SelectUnit(action.UnitID)
	case ActionSelectModule:
		return progression.Transition{}, nav.SelectModule(action.UnitID, action.ModuleID)
	case ActionSelectUnitTest:
		return progression.Transition{}, nav.SelectUnitTest(action.UnitID)
	case ActionSelectFinalTest:
		return progression.Transition{}, nav.SelectFinalTest()
	case ActionAdvance:
		return nav.Advance()
	case ActionComplete:
		return nav.MarkCurrentModuleComplete(ctx)
	case ActionToggleUnit:
		return progression.Transition{}, nav.ToggleUnitExpansion(action.UnitID)
	case ActionToggleSidebar:
		nav.View().ToggleSidebar()
	default:
		return progression.Transition{}, fmt.Errorf("%w: %s", util.ErrInvalidAction, action.Type)
	}
	return progression.Transition{}, nil
}

// ProgressView 完成度；读取进度失败时按无进度返回并附带 Warning
type ProgressView struct {
	progression.Summary
	Warning string `json:"warning,omitempty"`
}

// Progress 返回学员在路径上的完成度；匿名学员返回全零
func (s *LearningPathService) Progress(ctx context.Context, learnerID, pathID string) (*ProgressView, error) {
	path, err := s.GetPath(ctx, pathID)
	if err != nil {
		return nil, err
	}

	v := &ProgressView{}
	completed := progression.NewCompletedSet()
	if learnerID != "" && s.Store != nil {
		loaded, err := s.Store.LoadCompleted(ctx, learnerID, pathID)
		if err != nil {
			logger.Log.Warn("加载学习进度失败，按无进度处理",
				zap.String("learnerId", learnerID),
				zap.String("pathId", pathID),
				zap.Error(err))
			v.Warning = err.Error()
		} else {
			completed = loaded
		}
	}
	v.Summary = progression.Summarize(path, completed)
	return v, nil
}

func (s *LearningPathService) open(ctx context.Context, learnerID, pathID string, restoreSelection bool, clientSnap *progression.Snapshot) (*progression.Navigator, error) {
	path, err := s.GetPath(ctx, pathID)
	if err != nil {
		return nil, err
	}

	nav := progression.Open(ctx, path, learnerID, s.Store)
	if w := nav.LoadWarning(); w != nil {
		logger.Log.Warn("加载学习进度失败，按无进度处理",
			zap.String("learnerId", learnerID),
			zap.String("pathId", pathID),
			zap.Error(w))
	}

	if nav.Anonymous() || s.Sessions == nil {
		if restoreSelection && clientSnap != nil {
			if err := nav.Restore(*clientSnap); err != nil {
				logger.Log.Info("客户端快照无效，忽略", zap.String("pathId", pathID), zap.Error(err))
			}
		}
		return nav, nil
	}

	snap, err := s.Sessions.Get(ctx, learnerID, pathID)
	if err != nil {
		logger.Log.Warn("读取导航快照失败", zap.String("learnerId", learnerID), zap.String("pathId", pathID), zap.Error(err))
		return nav, nil
	}
	if snap == nil {
		return nav, nil
	}

	resume := nav.Current()
	if !restoreSelection {
		snap.Kind, snap.UnitID, snap.ModuleID = resume.Kind, resume.UnitID(), resume.ModuleID()
	}
	if err := nav.Restore(*snap); err != nil {
		logger.Log.Info("导航快照已过期，回到续学位置", zap.String("pathId", pathID), zap.Error(err))
	}
	return nav, nil
}

func (s *LearningPathService) saveSession(ctx context.Context, nav *progression.Navigator) {
	if nav.Anonymous() || s.Sessions == nil {
		return
	}
	if err := s.Sessions.Save(ctx, nav.LearnerID(), nav.Path().ID, nav.Snapshot()); err != nil {
		logger.Log.Warn("保存导航快照失败", zap.String("learnerId", nav.LearnerID()), zap.Error(err))
	}
}

func (s *LearningPathService) view(ctx context.Context, nav *progression.Navigator, tr progression.Transition) *NavigatorView {
	cur := nav.Current()
	resume := nav.ResumeTarget()
	v := &NavigatorView{
		PathID:           nav.Path().ID,
		Anonymous:        nav.Anonymous(),
		Selection:        selectionOf(cur),
		ResumeTarget:     selectionOf(resume),
		ExpandedUnits:    nav.ExpandedUnits(),
		SidebarOpen:      nav.View().SidebarOpen(),
		CompletedModules: nav.CompletedModules(),
		Progress:         nav.Progress(),
		PathComplete:     tr.PathComplete,
		Session:          nav.Snapshot(),
	}
	if v.ExpandedUnits == nil {
		v.ExpandedUnits = []string{}
	}
	if w := nav.LoadWarning(); w != nil {
		v.Warning = w.Error()
	}
	if cur.Module != nil {
		v.Module = s.moduleView(ctx, cur.Module, nav.IsModuleCompleted(cur.Module.ID))
	}
	if cur.Test != nil {
		v.Test = testView(cur.Test)
	}
	if tr.FinalTest != nil {
		v.FinalTest = testView(tr.FinalTest)
	}
	return v
}

func (s *LearningPathService) moduleView(ctx context.Context, m *curriculum.Module, completed bool) *ModuleView {
	mv := &ModuleView{
		ID:              m.ID,
		UnitID:          m.UnitID,
		Title:           m.Title,
		ContentType:     m.ContentType,
		Content:         m.Content,
		DurationMinutes: m.DurationMinutes,
		Completed:       completed,
	}
	if m.FileKey != "" && s.Storage != nil {
		u, err := s.Storage.GetURL(ctx, m.FileKey)
		if err != nil {
			logger.Log.Warn("获取模块文件地址失败", zap.String("moduleId", m.ID), zap.Error(err))
		} else {
			mv.ContentURL = u
		}
	}
	return mv
}

func selectionOf(st progression.State) SelectionView {
	return SelectionView{
		Kind:     st.Kind,
		UnitID:   st.UnitID(),
		ModuleID: st.ModuleID(),
		TestID:   st.TestID(),
	}
}

func testView(t *curriculum.Test) *TestView {
	return &TestView{
		ID:             t.ID,
		Name:           t.Name,
		Type:           t.Type,
		UnitID:         t.UnitID,
		QuestionCount:  len(t.Questions),
		PassPercentage: t.PassPercentage,
		TotalMarks:     t.TotalMarks,
	}
}
