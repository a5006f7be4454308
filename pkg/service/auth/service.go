package auth

import (
	"context"
	"fmt"

	"github.com/xyhcode/blog-api/internal/pkg/auth"
	"github.com/xyhcode/blog-api/pkg/config"
	"github.com/xyhcode/blog-api/pkg/domain/model"
	"github.com/xyhcode/blog-api/pkg/service/user"
)

type Service interface {
	// LoginWithGithub 接收外部 OAuth 验证后的 GitHub 档案，
	// 建档或同步用户后签发访问令牌
	LoginWithGithub(ctx context.Context, req *model.GithubLoginRequest) (*model.LoginResponse, error)
}

type serviceImpl struct {
	userSvc user.Service
	cfg     *config.Config
}

func NewService(userSvc user.Service, cfg *config.Config) Service {
	return &serviceImpl{
		userSvc: userSvc,
		cfg:     cfg,
	}
}

func (s *serviceImpl) LoginWithGithub(ctx context.Context, req *model.GithubLoginRequest) (*model.LoginResponse, error) {
	u, err := s.userSvc.UpsertByGithub(ctx, req)
	if err != nil {
		return nil, err
	}

	secret := []byte(s.cfg.GetString(config.KeyJWTSecret))
	token, err := auth.GenerateToken(u.ID, string(u.Role), secret)
	if err != nil {
		return nil, fmt.Errorf("签发访问令牌失败: %w", err)
	}

	userResp, err := user.ToResponse(u)
	if err != nil {
		return nil, err
	}
	return &model.LoginResponse{
		AccessToken: token,
		User:        userResp,
	}, nil
}
