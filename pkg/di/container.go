// Package di provides dependency injection container
package di

import (
	"github.com/ssargent/xbase/pkg/codepage"
	"github.com/ssargent/xbase/pkg/memo"
)

// CodepageService resolves the charset used to translate Character field
// bytes.
type CodepageService interface {
	ByName(name string) (codepage.Codepage, error)
	ByLanguageDriver(driver byte) (codepage.Codepage, error)
}

// MemoService opens the memo block file that sits beside a table.
type MemoService interface {
	Open(path string) (*memo.File, error)
}

// Container holds all the dependencies for the application
type Container struct {
	codepageService CodepageService
	memoService     MemoService
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		codepageService: codepageService{},
		memoService:     memoService{},
	}
}

// GetCodepageService returns the codepage resolution service
func (c *Container) GetCodepageService() CodepageService {
	return c.codepageService
}

// GetMemoService returns the memo file service
func (c *Container) GetMemoService() MemoService {
	return c.memoService
}

// SetCodepageService allows overriding the codepage service (for testing)
func (c *Container) SetCodepageService(service CodepageService) {
	c.codepageService = service
}

// SetMemoService allows overriding the memo service (for testing)
func (c *Container) SetMemoService(service MemoService) {
	c.memoService = service
}

type codepageService struct{}

func (codepageService) ByName(name string) (codepage.Codepage, error) {
	return codepage.ByName(name)
}

func (codepageService) ByLanguageDriver(driver byte) (codepage.Codepage, error) {
	return codepage.ByLanguageDriver(driver)
}

type memoService struct{}

func (memoService) Open(path string) (*memo.File, error) {
	return memo.Open(path)
}
