// Package pipeline реализует конвейер принятия решения по входящему сообщению:
// диспетчеризация команд → поиск реакции по паттернам → проверка картинки на
// повтор. Каждая стадия либо даёт итоговый ответ и останавливает конвейер, либо
// передаёт управление следующей; на одно сообщение — не больше одного ответа.
package pipeline

import (
	"context"
	"time"

	"github.com/zamzabot/internal/logger"
	"github.com/zamzabot/internal/model"
	"github.com/zamzabot/internal/worker"
)

// Stage — состояние конвейера.
type Stage int

const (
	StageCommands Stage = iota
	StageSearch
	StageDupCheck
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageCommands:
		return "commands"
	case StageSearch:
		return "search"
	case StageDupCheck:
		return "dupcheck"
	default:
		return "done"
	}
}

// Deps — коллабораторы конвейера; собираются один раз на старте.
type Deps struct {
	Commands     *Dispatcher
	Reactions    ReactionStore
	Fingerprints FingerprintStore
	Transport    Transport
	Engine       Fingerprinter
	Classifier   Classifier
	Pool         *worker.Pool

	// Cooldown — окно подавления реакции после срабатывания.
	Cooldown time.Duration
	// Now — источник времени; nil = time.Now (подменяется в тестах).
	Now func() time.Time
}

// Pipeline прогоняет сообщения через стадии. Состояния между запусками не
// разделяются: один Run на сообщение, запуски независимы.
type Pipeline struct {
	commands     *Dispatcher
	reactions    ReactionStore
	fingerprints FingerprintStore
	transport    Transport
	engine       Fingerprinter
	classifier   Classifier
	pool         *worker.Pool
	cooldown     time.Duration
	now          func() time.Time
}

// New собирает конвейер из коллабораторов.
func New(deps Deps) *Pipeline {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Pool == nil {
		deps.Pool = worker.NewPool(0)
	}
	if deps.Commands == nil {
		deps.Commands = NewDispatcher()
	}
	return &Pipeline{
		commands:     deps.Commands,
		reactions:    deps.Reactions,
		fingerprints: deps.Fingerprints,
		transport:    deps.Transport,
		engine:       deps.Engine,
		classifier:   deps.Classifier,
		pool:         deps.Pool,
		cooldown:     deps.Cooldown,
		now:          deps.Now,
	}
}

// Run прогоняет сообщение через стадии и возвращает итоговый ответ либо nil.
// Внутренние сбои гасятся на границах стадий: неудачный запуск просто не даёт
// ответа, процесс не падает.
func (p *Pipeline) Run(ctx context.Context, msg *model.Message) *model.Response {
	defer logger.DeferLogDuration("pipeline.Run", time.Now())()

	resp := &model.Response{}
	for st := StageCommands; st != StageDone; {
		next := p.step(ctx, st, msg, resp)
		logger.Debugf("pipeline: stage %s -> %s (msg %d)", st, next, msg.ID)
		st = next
	}
	if resp.Empty() {
		return nil
	}
	return resp
}

// step — таблица переходов: стадия получает сообщение и накопленный ответ,
// возвращает следующее состояние.
func (p *Pipeline) step(ctx context.Context, st Stage, msg *model.Message, resp *model.Response) Stage {
	switch st {
	case StageCommands:
		return p.runCommands(ctx, msg, resp)
	case StageSearch:
		return p.runSearch(ctx, msg, resp)
	case StageDupCheck:
		return p.runDuplicateCheck(ctx, msg, resp)
	default:
		return StageDone
	}
}

// runCommands: при наличии маркеров команда уходит в диспетчер и её результат
// терминален; без маркеров — переход к поиску реакций.
func (p *Pipeline) runCommands(ctx context.Context, msg *model.Message, resp *model.Response) Stage {
	if len(msg.Commands) == 0 {
		return StageSearch
	}
	resp.Merge(p.commands.Dispatch(ctx, p, msg))
	return StageDone
}
