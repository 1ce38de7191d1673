package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/userstats --output domain/userstats --outpkg userstatsmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/prediction --output domain/prediction --outpkg predictionmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name MatchProvider --dir ../usecase --output usecase --outpkg usecasemock --filename match_provider_mock.go
