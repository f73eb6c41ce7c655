package server

var GitHubEventToRepository = githubEventToRepository
