package authz

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/fatih/structs"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/open-policy-agent/opa/ast"
	"github.com/open-policy-agent/opa/rego"
	"go.uber.org/zap"

	"github.com/tidepool-org/careprofiles/auth"
	"github.com/tidepool-org/careprofiles/errors"
)

var (
	//go:embed policy.rego
	authzPolicy string

	ErrUnauthorized = fmt.Errorf("%w: the subject is not authorized for the requested action", errors.Forbidden)
)

type RequestAuthorizer interface {
	Authorize(context.Context, *openapi3filter.AuthenticationInput) error
	EvaluatePolicy(context.Context, map[string]interface{}) error
}

func NewRequestAuthorizer(logger *zap.SugaredLogger) (RequestAuthorizer, error) {
	compiler, err := ast.CompileModules(map[string]string{
		"policy.rego": authzPolicy,
	})
	if err != nil {
		return nil, err
	}

	return &embeddedOpaAuthorizer{
		logger: logger,
		policy: compiler,
	}, nil
}

type embeddedOpaAuthorizer struct {
	logger *zap.SugaredLogger
	policy *ast.Compiler
}

func (e *embeddedOpaAuthorizer) Authorize(ctx context.Context, input *openapi3filter.AuthenticationInput) error {
	request := input.RequestValidationInput.Request
	identity := auth.GetIdentity(request.Context())
	if identity == nil {
		return ErrUnauthorized
	}

	in := map[string]interface{}{
		"auth":   identityInput(identity),
		"path":   splitPath(request.URL.Path),
		"method": strings.ToUpper(request.Method),
	}

	return e.EvaluatePolicy(ctx, in)
}

func (e *embeddedOpaAuthorizer) EvaluatePolicy(ctx context.Context, input map[string]interface{}) error {
	r := rego.New(
		rego.Package("http.authz.careprofiles"),
		rego.Query("allow"),
		rego.Compiler(e.policy),
		rego.Input(input),
	)

	results, err := r.Eval(ctx)
	if err != nil {
		return fmt.Errorf("unable to evaluate authorization policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return fmt.Errorf("evaluating authorization policy returned no results")
	}

	val, ok := results[0].Expressions[0].Value.(bool)
	if !ok {
		return fmt.Errorf("unexpected authorization result: %v", results[0].Expressions[0].Value)
	}

	e.logger.Debugw("authorization policy eval", zap.Any("input", input), zap.Bool("allow", val))

	if !val {
		return ErrUnauthorized
	}

	return nil
}

func identityInput(identity *auth.Identity) map[string]interface{} {
	s := structs.New(*identity)
	s.TagName = "json"
	return s.Map()
}

func splitPath(urlPath string) []string {
	path := strings.Split(urlPath, "/")
	if len(path) > 0 && path[0] == "" {
		path = path[1:]
	}
	return path
}
