package store

import (
	"time"

	"checklist/internal/models"
)

// SeedTasks returns the sample checklists loaded at start. Step ids restart
// at 1 in every sample task; new steps continue after the highest one.
func SeedTasks(createdAt time.Time) []models.Task {
	samples := []struct {
		title       string
		description string
		steps       []string
	}{
		{
			title:       "Build a Dockerfile",
			description: "Learn how to containerize an application using Docker",
			steps: []string{
				"Create a new file named 'Dockerfile'",
				"Choose a base image (e.g., FROM node:18)",
				"Set the working directory (WORKDIR /app)",
				"Copy package files (COPY package*.json ./)",
				"Install dependencies (RUN npm install)",
				"Copy application code (COPY . .)",
				"Expose port (EXPOSE 3000)",
				`Define start command (CMD ["npm", "start"])`,
				"Build the image (docker build -t myapp .)",
				"Run the container (docker run -p 3000:3000 myapp)",
			},
		},
		{
			title:       "Setup CI/CD Pipeline",
			description: "Configure GitHub Actions for automated deployment",
			steps: []string{
				"Create .github/workflows directory",
				"Create workflow YAML file",
				"Define trigger events (push, pull_request)",
				"Setup job environment (runs-on: ubuntu-latest)",
				"Checkout code (uses: actions/checkout@v3)",
				"Setup Node.js environment",
				"Install dependencies",
				"Run tests",
				"Build application",
				"Deploy to production",
			},
		},
		{
			title:       "Deploy to Kubernetes",
			description: "Deploy your containerized app to a Kubernetes cluster",
			steps: []string{
				"Create deployment.yaml file",
				"Define Pod specification",
				"Set container image and ports",
				"Create service.yaml for networking",
				"Apply deployment (kubectl apply -f deployment.yaml)",
				"Apply service (kubectl apply -f service.yaml)",
				"Verify pods are running (kubectl get pods)",
				"Check service status (kubectl get services)",
				"Test application endpoint",
				"Setup horizontal pod autoscaling",
			},
		},
	}

	tasks := make([]models.Task, 0, len(samples))
	for i, sample := range samples {
		steps := make([]models.Step, 0, len(sample.steps))
		for j, text := range sample.steps {
			steps = append(steps, models.Step{ID: int64(j + 1), Text: text})
		}
		tasks = append(tasks, models.Task{
			ID:          int64(i + 1),
			Title:       sample.title,
			Description: sample.description,
			Steps:       steps,
			CreatedAt:   createdAt,
		})
	}

	return tasks
}

// DefaultSeed returns the sample checklists stamped with the current time.
func DefaultSeed() []models.Task {
	return SeedTasks(now())
}
