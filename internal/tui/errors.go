// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-protected-text/internal/crypto"
	"github.com/MKhiriev/go-protected-text/internal/document"
	"github.com/MKhiriev/go-protected-text/internal/service"
	"github.com/MKhiriev/go-protected-text/internal/store"
)

var ErrUserQuit = errors.New("вышел из программы")

func humanizeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, document.ErrDecryptionFailed):
		return "Неверный пароль"
	case errors.Is(err, crypto.ErrDecode):
		return "Содержимое сайта повреждено"
	case errors.Is(err, service.ErrConflict):
		return "Сайт изменён в другом месте. r: перезагрузить"
	case errors.Is(err, service.ErrSiteNotFound):
		return "Сайт не существует"
	case errors.Is(err, service.ErrSiteAlreadyExists):
		return "Сайт уже существует"
	case errors.Is(err, service.ErrEmptySiteName):
		return "Укажите имя сайта"
	case errors.Is(err, service.ErrEmptyContent):
		return "Нечего сохранять: добавьте вкладку"
	case errors.Is(err, service.ErrCacheDisabled):
		return "Локальный кэш отключён"
	case errors.Is(err, store.ErrSnapshotNotFound):
		return "Нет сохранённой копии сайта"
	case errors.Is(err, document.ErrInvalidArgument):
		return "Недопустимое действие"
	}
	return humanizeServerUnavailableError(err)
}

func humanizeServerUnavailableError(err error) string {
	if err == nil {
		return ""
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded") {
		return "Отсутствует сеть или сервер недоступен"
	}

	return err.Error()
}
