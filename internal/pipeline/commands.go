package pipeline

import (
	"context"
	"fmt"

	"github.com/zamzabot/internal/logger"
	"github.com/zamzabot/internal/model"
)

// commandFailureText — единственный видимый пользователю текст при сбое хендлера.
const commandFailureText = "Что-то пошло не так, попробуйте ещё раз"

// HandlerFunc — обработчик команды. Получает конвейер как контекст (доступ к
// хранилищам и транспорту), имя команды и сообщение; возвращает ответ (может
// быть nil — команда без ответа) либо ошибку.
type HandlerFunc func(ctx context.Context, p *Pipeline, cmd string, msg *model.Message) (*model.Response, error)

// Dispatcher — статическая таблица команд, собирается вызывающим кодом на старте.
type Dispatcher struct {
	handlers map[string]HandlerFunc
}

// NewDispatcher создаёт пустой диспетчер.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]HandlerFunc)}
}

// Register регистрирует обработчик команды (имя без ведущего '/', регистр важен).
func (d *Dispatcher) Register(name string, h HandlerFunc) {
	d.handlers[name] = h
}

// Dispatch извлекает имя команды из первого маркера и вызывает обработчик.
// Неизвестная команда — готовый ответ без вызова обработчика. Ошибка или паника
// обработчика гасится здесь же и превращается в общий текст сбоя: упавшая
// команда никогда не фатальна для конвейера.
func (d *Dispatcher) Dispatch(ctx context.Context, p *Pipeline, msg *model.Message) (resp *model.Response) {
	cmd := msg.CommandName(msg.Commands[0])
	logger.Debugf("dispatch: команда '%s' от %s", cmd, msg.From.DisplayName())

	h, ok := d.handlers[cmd]
	if !ok {
		return &model.Response{
			Text: fmt.Sprintf("There is no command '/%s', @%s", cmd, msg.From.DisplayName()),
		}
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("dispatch: паника в команде '%s': %v", cmd, r)
			resp = &model.Response{Text: commandFailureText}
		}
	}()

	r, err := h(ctx, p, cmd, msg)
	if err != nil {
		logger.Errorf("dispatch: команда '%s': %v", cmd, err)
		return &model.Response{Text: commandFailureText}
	}
	return r
}
