// Copyright 2025 Quantrace Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package repo

import (
	"github.com/google/wire"

	"github.com/quantrix/quantrace/internal/engine/model"
	"github.com/quantrix/quantrace/pkg/database"
)

// Repositories bundles all repositories for injection.
type Repositories struct {
	Execution IExecutionRepository
}

// ProviderSet provides repository dependencies.
var ProviderSet = wire.NewSet(ProvideRepositories)

// ProvideRepositories creates the repository bundle and ensures the schema.
func ProvideRepositories(db database.IDatabase) (*Repositories, error) {
	if err := db.Database().AutoMigrate(&model.Execution{}); err != nil {
		return nil, err
	}
	return &Repositories{
		Execution: NewExecutionRepo(db),
	}, nil
}
